package agent

import "sync"

// sessionLocks serializes message handling per session id while letting
// different sessions proceed fully in parallel.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the session's mutex, creating it on first use, and
// returns the release func.
func (s *sessionLocks) acquire(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// forget drops the lock entry for an evicted session. Safe to call for
// ids that were never locked.
func (s *sessionLocks) forget(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}
