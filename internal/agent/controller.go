// Package agent orchestrates one honeypot turn: score the inbound
// message, extract and merge intelligence, pick the next dialogue goal,
// generate the persona reply, and fire the one-time callback report when
// the session has yielded enough.
//
// All per-session work runs under a keyed lock, so concurrent deliveries
// for one session serialize while different sessions proceed in parallel.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/callback"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/detect"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/hooks"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/intel"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/policy"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
)

// Config tunes the engagement loop. Zero values fall back to defaults.
// Model selection lives with the provider registry; the controller only
// names providers.
type Config struct {
	Provider        string        // primary LLM provider name
	Fallbacks       []string      // providers tried on retryable errors
	MaxTokens       int           // reply token budget (default 60)
	Temperature     *float64      // sampling temperature
	LLMTimeout      time.Duration // per-generation budget (default 20s)
	ContinueCeiling int           // engage below this count even when not scam (default 8)
	HardCeiling     int           // unconditional stop at this count (default 14)
	GoalWindow      int           // transcript tail for goal prompts (default 5)
	EngageWindow    int           // transcript tail for stay-engaged prompts (default 3)
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 60
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 20 * time.Second
	}
	if c.ContinueCeiling <= 0 {
		c.ContinueCeiling = 8
	}
	if c.HardCeiling <= 0 {
		c.HardCeiling = 14
	}
	if c.GoalWindow <= 0 {
		c.GoalWindow = 5
	}
	if c.EngageWindow <= 0 {
		c.EngageWindow = 3
	}
	return c
}

// Controller is the per-message engagement orchestrator.
type Controller struct {
	cfg      Config
	store    store.Store
	scorer   detect.Scorer
	client   *FailoverClient
	notifier *callback.Notifier
	hooks    *hooks.Manager
	locks    *sessionLocks
	log      *logging.Logger
}

// NewController creates a controller. notifier and hm may be nil: a nil
// notifier disables callback delivery, a nil hook manager drops events.
func NewController(
	cfg Config,
	st store.Store,
	scorer detect.Scorer,
	registry *llm.Registry,
	notifier *callback.Notifier,
	hm *hooks.Manager,
	log *logging.Logger,
) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		cfg:      cfg,
		store:    st,
		scorer:   scorer,
		client:   NewFailoverClient(registry, cfg.Provider, cfg.Fallbacks, log),
		notifier: notifier,
		hooks:    hm,
		locks:    newSessionLocks(),
		log:      log.Sub("agent"),
	}
}

// HandleMessage processes one counterpart message end to end and returns
// the engagement result for the transport layer. Each call is atomic from
// the caller's view: deliveries for the same session serialize on the
// session lock.
func (c *Controller) HandleMessage(ctx context.Context, msg domain.InboundMessage) (*domain.EngagementResult, error) {
	if strings.TrimSpace(msg.SessionID) == "" {
		return nil, errors.New("sessionId is required")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.New("message text is required")
	}

	release := c.locks.acquire(msg.SessionID)
	defer release()

	created := false
	if _, err := c.store.Get(msg.SessionID); err != nil {
		if !errors.Is(err, store.ErrUnknownSession) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		created = true
	}

	sess, err := c.store.Ensure(msg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}
	if created {
		c.emit(ctx, hooks.EventSessionCreated, map[string]any{"sessionId": msg.SessionID})
	}

	log := c.log.WithSession(msg.SessionID)
	log.Info().
		Str("sender", msg.Sender).
		Str("channel", msg.Metadata.Channel).
		Str("language", msg.Metadata.Language).
		Int("historyLen", len(msg.History)).
		Msg("processing message")

	// Caller-provided history seeds only a fresh transcript; re-posting it
	// must never duplicate turns.
	if len(sess.Messages) == 0 {
		if err := c.seedHistory(msg.SessionID, msg.History); err != nil {
			return nil, err
		}
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	total, err := c.store.AppendMessage(msg.SessionID, domain.OriginCounterpart, msg.Text, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	c.emit(ctx, hooks.EventMessageReceived, map[string]any{
		"sessionId":     msg.SessionID,
		"totalMessages": total,
	})

	assessment := c.scorer.Score(msg.Text)
	if assessment.Decision == domain.DecisionScam {
		c.emit(ctx, hooks.EventScamDetected, map[string]any{
			"sessionId":  msg.SessionID,
			"confidence": assessment.Confidence,
			"signals":    assessment.Signals,
		})
	}

	if err := c.store.MergeIntelligence(msg.SessionID, intel.Extract(msg.Text)); err != nil {
		return nil, fmt.Errorf("failed to merge intelligence: %w", err)
	}
	paymentRequested := intel.PaymentReferenced(msg.Text)

	// Post-merge snapshot drives the goal and stop decisions.
	sess, err = c.store.Get(msg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	goal := policy.RefineGoal(policy.NextGoal(sess.Intelligence, paymentRequested), paymentRequested)
	if err := c.store.SetGoal(msg.SessionID, goal); err != nil {
		return nil, fmt.Errorf("failed to set goal: %w", err)
	}

	continueEngage := assessment.Decision == domain.DecisionScam || total < c.cfg.ContinueCeiling

	var (
		reply string
		stage domain.Stage
		gen   genOutcome
		fired bool
	)
	switch {
	case continueEngage && !sess.CallbackSent &&
		policy.ShouldStop(sess.Intelligence, total, c.cfg.HardCeiling):
		// Enough collected: set the guard before anything can fail, close
		// with the fixed line, and report asynchronously.
		if err := c.store.MarkCallbackSent(msg.SessionID); err != nil {
			return nil, fmt.Errorf("failed to mark callback sent: %w", err)
		}
		stage = domain.StageClosing
		reply = policy.ClosingMessage
		fired = true

	case continueEngage:
		stage = domain.StageProbing
		if assessment.Decision == domain.DecisionScam {
			stage = domain.StageExtraction
		}
		gen = c.generate(ctx, goal, sess.Messages, c.cfg.GoalWindow, log)
		reply = gen.reply

	default:
		// Low risk and over the engage budget: keep the thread alive with
		// a neutral ask instead of going quiet.
		stage = domain.StageProbing
		gen = c.generate(ctx, domain.GoalKeepEngaged, sess.Messages, c.cfg.EngageWindow, log)
		reply = gen.reply
	}

	total, err = c.store.AppendMessage(msg.SessionID, domain.OriginAgent, reply, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to append reply: %w", err)
	}

	replied := map[string]any{
		"sessionId":     msg.SessionID,
		"stage":         string(stage),
		"goal":          string(goal),
		"totalMessages": total,
	}
	if gen.duration > 0 {
		replied["durationMs"] = gen.duration.Milliseconds()
	}
	if gen.fallback {
		replied["fallback"] = true
	}
	if gen.filtered {
		replied["filtered"] = true
	}
	c.emit(ctx, hooks.EventAgentReplied, replied)

	if fired {
		c.dispatchCallback(msg.SessionID, log)
	}

	log.Info().
		Str("decision", string(assessment.Decision)).
		Float64("confidence", assessment.Confidence).
		Str("goal", string(goal)).
		Str("stage", string(stage)).
		Int("totalMessages", total).
		Bool("callbackFired", fired).
		Msg("message handled")

	return &domain.EngagementResult{
		SessionID:      msg.SessionID,
		Status:         "success",
		AgentActivated: continueEngage,
		Decision:       assessment.Decision,
		Confidence:     assessment.Confidence,
		Signals:        assessment.Signals,
		CurrentGoal:    goal,
		AgentStage:     stage,
		AgentReply:     reply,
		TotalMessages:  total,
		CallbackFired:  fired,
	}, nil
}

// ForgetSession drops the session's lock entry. Called by the expiry
// sweeper after the store evicts the session.
func (c *Controller) ForgetSession(id string) {
	c.locks.forget(id)
}

// seedHistory appends prior-conversation turns supplied by the caller.
// Senders other than "agent" count as the counterpart.
func (c *Controller) seedHistory(sessionID string, history []domain.SeedMessage) error {
	for _, h := range history {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		origin := domain.OriginCounterpart
		if h.Sender == string(domain.OriginAgent) {
			origin = domain.OriginAgent
		}
		if _, err := c.store.AppendMessage(sessionID, origin, h.Text, h.Timestamp); err != nil {
			return fmt.Errorf("failed to seed history: %w", err)
		}
	}
	return nil
}

// genOutcome carries one generation's reply plus the facts the reply
// event reports.
type genOutcome struct {
	reply    string
	duration time.Duration
	fallback bool
	filtered bool
}

// generate builds the goal prompt from the transcript tail and runs it
// through the failover client. Generation failures degrade to the fixed
// fallback line; they never fail the turn.
func (c *Controller) generate(ctx context.Context, goal domain.Goal, transcript []domain.Message, window int, log *logging.Logger) genOutcome {
	prompt := policy.BuildPrompt(goal, policy.Excerpt(transcript, window))
	req := llm.Request{
		System:      policy.PersonaSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	cctx, cancel := context.WithTimeout(ctx, c.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Complete(cctx, req)
	duration := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Str("goal", string(goal)).Msg("reply generation failed, using fallback line")
		return genOutcome{reply: policy.FallbackLine, duration: duration, fallback: true}
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return genOutcome{reply: policy.FallbackLine, duration: duration, fallback: true}
	}

	reply, filtered := policy.FilterReply(reply)
	if filtered {
		log.Debug().Str("goal", string(goal)).Msg("generated reply broke persona, replaced")
	}
	return genOutcome{reply: reply, duration: duration, filtered: filtered}
}

// dispatchCallback snapshots the report under the session lock and
// delivers it in the background so delivery never extends the lock hold.
// The guard is already set; a failed delivery stays spent.
func (c *Controller) dispatchCallback(sessionID string, log *logging.Logger) {
	if c.notifier == nil || !c.notifier.Enabled() {
		log.Info().Msg("callback not configured, report skipped")
		return
	}

	serialized, err := c.store.SerializedIntelligence(sessionID)
	if err != nil {
		log.Error().Err(err).Msg("failed to serialize intelligence for callback")
		return
	}
	sess, err := c.store.Get(sessionID)
	if err != nil {
		log.Error().Err(err).Msg("failed to snapshot session for callback")
		return
	}

	report := domain.CallbackReport{
		SessionID:              sessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: sess.TotalMessages,
		ExtractedIntelligence:  serialized,
		AgentNotes:             callback.ComposeNotes(serialized),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := c.notifier.Send(ctx, report); err != nil {
			log.Error().Err(err).Msg("failed to deliver callback")
			c.emit(ctx, hooks.EventCallbackFailed, map[string]any{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
			return
		}
		c.emit(ctx, hooks.EventCallbackSent, map[string]any{
			"sessionId":     sessionID,
			"totalMessages": report.TotalMessagesExchanged,
		})
	}()
}

func (c *Controller) emit(ctx context.Context, event string, data map[string]any) {
	if c.hooks == nil {
		return
	}
	c.hooks.Emit(ctx, event, data)
}
