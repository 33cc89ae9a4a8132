// Package store owns per-session honeypot state: the message transcript,
// the cumulative intelligence sets, message counters, dialogue goals, and
// the one-shot callback guard. Two backends implement the same interface:
// an in-memory map (default) and SQLite (optional durability).
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// ErrUnknownSession is returned when a mutation targets a session id that
// was never ensured. The orchestrator always ensures before mutating, so
// seeing this error means an orchestration bug, not a caller mistake.
var ErrUnknownSession = errors.New("unknown session")

func unknownSession(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownSession, id)
}

// Store manages honeypot sessions. All methods are safe for concurrent
// use; two concurrent Ensure calls for a new id converge on one session.
//
// Get and Ensure return snapshots — mutating the returned Session never
// changes stored state.
type Store interface {
	// Ensure creates the session if it does not exist and returns a
	// snapshot. Ensuring an existing session is a no-op that never
	// resets state.
	Ensure(id string) (*domain.Session, error)

	// Get returns a snapshot of the session, or ErrUnknownSession.
	Get(id string) (*domain.Session, error)

	// AppendMessage appends one transcript message and increments the
	// total counter atomically. Returns the new total.
	AppendMessage(id string, origin domain.Origin, text string, ts time.Time) (int, error)

	// MergeIntelligence unions extracted values into the session's
	// cumulative sets. Empty or absent categories are no-ops.
	MergeIntelligence(id string, extracted domain.Intelligence) error

	// SetGoal records the goal the dialogue is currently pursuing. A
	// superseded goal moves into the completed set.
	SetGoal(id string, goal domain.Goal) error

	// MarkCallbackSent sets the one-shot callback guard. The guard is
	// monotone: once set it is never cleared.
	MarkCallbackSent(id string) error

	// CallbackSent reports the callback guard.
	CallbackSent(id string) (bool, error)

	// SerializedIntelligence returns the cumulative intelligence as
	// sorted slices per category, ready for wire transmission.
	SerializedIntelligence(id string) (map[string][]string, error)

	// List returns summaries of all sessions, most recently active first.
	List() ([]domain.SessionSummary, error)

	// Delete removes a session. Deleting an unknown id is a no-op.
	Delete(id string) error

	// ExpireBefore removes sessions whose last activity predates the
	// cutoff and returns their ids.
	ExpireBefore(cutoff time.Time) ([]string, error)

	// Close releases backend resources.
	Close() error
}
