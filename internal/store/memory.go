package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// MemoryStore is the in-memory Store backend. Sessions live for the
// process lifetime unless evicted by the TTL sweeper.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

func (s *MemoryStore) Ensure(id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		now := time.Now()
		sess = &domain.Session{
			ID:             id,
			Intelligence:   domain.NewIntelligence(),
			CreatedAt:      now,
			LastActivityAt: now,
		}
		s.sessions[id] = sess
	}
	return snapshot(sess), nil
}

func (s *MemoryStore) Get(id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, unknownSession(id)
	}
	return snapshot(sess), nil
}

func (s *MemoryStore) AppendMessage(id string, origin domain.Origin, text string, ts time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, unknownSession(id)
	}
	sess.Messages = append(sess.Messages, domain.Message{From: origin, Text: text, Timestamp: ts})
	sess.TotalMessages++
	sess.LastActivityAt = time.Now()
	return sess.TotalMessages, nil
}

func (s *MemoryStore) MergeIntelligence(id string, extracted domain.Intelligence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return unknownSession(id)
	}
	sess.Intelligence.Merge(extracted)
	return nil
}

func (s *MemoryStore) SetGoal(id string, goal domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return unknownSession(id)
	}
	if sess.CurrentGoal != "" && sess.CurrentGoal != goal {
		sess.GoalsCompleted = appendGoal(sess.GoalsCompleted, sess.CurrentGoal)
	}
	sess.CurrentGoal = goal
	return nil
}

func (s *MemoryStore) MarkCallbackSent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return unknownSession(id)
	}
	sess.CallbackSent = true
	return nil
}

func (s *MemoryStore) CallbackSent(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, unknownSession(id)
	}
	return sess.CallbackSent, nil
}

func (s *MemoryStore) SerializedIntelligence(id string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, unknownSession(id)
	}
	return sess.Intelligence.Serialized(), nil
}

func (s *MemoryStore) List() ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, summarize(sess))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) ExpireBefore(cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, sess := range s.sessions {
		if sess.LastActivityAt.Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	sort.Strings(expired)
	return expired, nil
}

func (s *MemoryStore) Close() error { return nil }

// snapshot deep-copies a session so callers can never mutate stored state.
func snapshot(sess *domain.Session) *domain.Session {
	cp := *sess
	cp.Messages = append([]domain.Message(nil), sess.Messages...)
	cp.Intelligence = sess.Intelligence.Clone()
	cp.GoalsCompleted = append([]domain.Goal(nil), sess.GoalsCompleted...)
	return &cp
}

func summarize(sess *domain.Session) domain.SessionSummary {
	return domain.SessionSummary{
		ID:             sess.ID,
		TotalMessages:  sess.TotalMessages,
		CallbackSent:   sess.CallbackSent,
		CurrentGoal:    sess.CurrentGoal,
		ArtifactCount:  sess.Intelligence.Count(),
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt,
	}
}

func appendGoal(goals []domain.Goal, g domain.Goal) []domain.Goal {
	for _, have := range goals {
		if have == g {
			return goals
		}
	}
	return append(goals, g)
}
