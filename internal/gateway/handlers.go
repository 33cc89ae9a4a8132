package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
)

// envelope wraps operator API responses. Success sets data, failure sets
// error; never both. Ingest responses are unwrapped because their shape is
// fixed by the external contract.
type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: &apiError{Code: code, Message: message}})
}

// handleHealth is the public liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ingestRequest is the transport shape of one inbound counterpart message.
type ingestRequest struct {
	SessionID string               `json:"sessionId"`
	Message   ingestMessage        `json:"message"`
	History   []domain.SeedMessage `json:"conversationHistory,omitempty"`
	Metadata  domain.Metadata      `json:"metadata,omitempty"`
}

type ingestMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// handleIngest runs one engagement turn and returns the result in the
// external contract's unwrapped shape.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.Rejected.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		s.metrics.Rejected.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "sessionId is required")
		return
	}
	if strings.TrimSpace(req.Message.Text) == "" {
		s.metrics.Rejected.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "message.text is required")
		return
	}

	result, err := s.engine.HandleMessage(r.Context(), domain.InboundMessage{
		SessionID: req.SessionID,
		Sender:    req.Message.Sender,
		Text:      req.Message.Text,
		Timestamp: req.Message.Timestamp,
		History:   req.History,
		Metadata:  req.Metadata,
	})
	if err != nil {
		s.log.Error().Err(err).Str("sessionId", req.SessionID).Msg("engagement turn failed")
		writeError(w, http.StatusInternalServerError, "ENGINE_ERROR", "failed to process message")
		return
	}

	s.metrics.Ingested.WithLabelValues(string(result.Decision)).Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleSessionList returns session summaries, most recently active first.
func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.List()
	if err != nil {
		s.log.Error().Err(err).Msg("session list failed")
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to list sessions")
		return
	}
	writeData(w, http.StatusOK, sums)
}

// sessionDetail is the operator view of one session: the transcript, the
// serialized intelligence, and the lifecycle flags.
type sessionDetail struct {
	ID             string              `json:"id"`
	Messages       []domain.Message    `json:"messages"`
	Intelligence   map[string][]string `json:"intelligence"`
	TotalMessages  int                 `json:"totalMessages"`
	CallbackSent   bool                `json:"callbackSent"`
	CurrentGoal    domain.Goal         `json:"currentGoal,omitempty"`
	GoalsCompleted []domain.Goal       `json:"goalsCompleted,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastActivityAt time.Time           `json:"lastActivityAt"`
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrUnknownSession) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown session: "+id)
			return
		}
		s.log.Error().Err(err).Str("sessionId", id).Msg("session load failed")
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to load session")
		return
	}

	writeData(w, http.StatusOK, sessionDetail{
		ID:             sess.ID,
		Messages:       sess.Messages,
		Intelligence:   sess.Intelligence.Serialized(),
		TotalMessages:  sess.TotalMessages,
		CallbackSent:   sess.CallbackSent,
		CurrentGoal:    sess.CurrentGoal,
		GoalsCompleted: sess.GoalsCompleted,
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt,
	})
}
