// Package jobs runs the background maintenance schedule. Today that is a
// single job: sweeping idle sessions out of the store so an abandoned
// conversation does not pin memory (or rows) forever.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/hooks"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
)

// Sweeper evicts sessions whose last activity predates the configured TTL.
// A TTL of zero disables sweeping entirely: the Sweeper constructs fine but
// Start and Stop become no-ops.
type Sweeper struct {
	scheduler gocron.Scheduler
	store     store.Store
	hooks     *hooks.Manager
	log       *logging.Logger
	ttl       time.Duration
	onExpire  func(sessionID string)
}

// NewSweeper builds the session sweeper from config. hm may be nil when no
// event consumers exist.
func NewSweeper(cfg config.SessionConfig, st store.Store, hm *hooks.Manager, log *logging.Logger) (*Sweeper, error) {
	s := &Sweeper{
		store: st,
		hooks: hm,
		log:   log.Sub("sweeper"),
		ttl:   time.Duration(cfg.TTLMinutes) * time.Minute,
	}
	if s.ttl <= 0 {
		return s, nil
	}

	interval := time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.Sweep),
		gocron.WithName("session-sweep"),
	); err != nil {
		return nil, fmt.Errorf("failed to register sweep job: %w", err)
	}
	s.scheduler = scheduler
	return s, nil
}

// OnExpire registers a callback invoked once per evicted session id. The
// orchestrator uses this to release its per-session locks.
func (s *Sweeper) OnExpire(fn func(sessionID string)) {
	s.onExpire = fn
}

// Enabled reports whether sweeping is active.
func (s *Sweeper) Enabled() bool {
	return s.scheduler != nil
}

// Start begins the sweep schedule.
func (s *Sweeper) Start() {
	if s.scheduler == nil {
		s.log.Debug().Msg("session sweeping disabled")
		return
	}
	s.scheduler.Start()
	s.log.Info().Dur("ttl", s.ttl).Msg("session sweeper started")
}

// Stop shuts the schedule down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop sweep scheduler: %w", err)
	}
	return nil
}

// Sweep runs one eviction pass. Exported so callers can force a pass
// without waiting for the next tick.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().UTC().Add(-s.ttl)
	ids, err := s.store.ExpireBefore(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if len(ids) == 0 {
		return
	}

	ctx := context.Background()
	for _, id := range ids {
		if s.onExpire != nil {
			s.onExpire(id)
		}
		if s.hooks != nil {
			s.hooks.Emit(ctx, hooks.EventSessionExpired, map[string]any{"sessionId": id})
		}
	}
	s.log.Info().Int("expired", len(ids)).Msg("idle sessions evicted")
}
