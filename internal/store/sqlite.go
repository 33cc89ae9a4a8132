package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
)

// DB wraps a SQLite database connection with migration support.
type DB struct {
	sql *sql.DB
	log *logging.Logger
}

// Open opens (or creates) a SQLite database at the given path and runs migrations.
// Use ":memory:" for an in-memory database (useful for tests).
func Open(path string, log *logging.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Foreign keys on
	if _, err := sqlDB.Exec("PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{sql: sqlDB, log: log.Sub("store")}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db.log.Info().Str("path", path).Msg("database opened")
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.log.Info().Msg("closing database")
	return db.sql.Close()
}

// SQL returns the underlying *sql.DB for direct queries.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// migrate runs all pending migrations.
func (db *DB) migrate() error {
	// Create migrations tracking table
	if _, err := db.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.isMigrationApplied(m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		db.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		tx, err := db.sql.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (db *DB) isMigrationApplied(version int) (bool, error) {
	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}
	return count > 0, nil
}

// tsFormat is fixed-width UTC so string comparison in SQL (ORDER BY,
// expiry cutoffs) matches chronological order. RFC3339Nano would trim
// trailing zeros and break that.
const tsFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *DB
}

// NewSQLiteStore creates a session store using the given database.
func NewSQLiteStore(db *DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Ensure(id string) (*domain.Session, error) {
	now := time.Now().UTC().Format(tsFormat)
	_, err := s.db.sql.Exec(
		`INSERT INTO sessions (id, intelligence, created_at, last_activity_at)
		 VALUES (?, '{}', ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}
	return s.Get(id)
}

func (s *SQLiteStore) Get(id string) (*domain.Session, error) {
	sess, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.sql.Query(
		`SELECT origin, text, timestamp FROM messages WHERE session_id = ? ORDER BY id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var origin, text, ts string
		if err := rows.Scan(&origin, &text, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		parsed, _ := time.Parse(tsFormat, ts)
		sess.Messages = append(sess.Messages, domain.Message{
			From:      domain.Origin(origin),
			Text:      text,
			Timestamp: parsed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) AppendMessage(id string, origin domain.Origin, text string, ts time.Time) (int, error) {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE sessions SET total_messages = total_messages + 1, last_activity_at = ? WHERE id = ?`,
		time.Now().UTC().Format(tsFormat), id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bump message count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, unknownSession(id)
	}

	if _, err := tx.Exec(
		`INSERT INTO messages (session_id, origin, text, timestamp) VALUES (?, ?, ?, ?)`,
		id, string(origin), text, ts.UTC().Format(tsFormat),
	); err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	var total int
	if err := tx.QueryRow(`SELECT total_messages FROM sessions WHERE id = ?`, id).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to read message count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit append: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) MergeIntelligence(id string, extracted domain.Intelligence) error {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin merge: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRow(`SELECT intelligence FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return unknownSession(id)
	}
	if err != nil {
		return fmt.Errorf("failed to load intelligence: %w", err)
	}

	intel := domain.NewIntelligence()
	if raw != "" && raw != "{}" {
		if err := json.Unmarshal([]byte(raw), &intel); err != nil {
			return fmt.Errorf("failed to decode intelligence: %w", err)
		}
	}
	intel.Merge(extracted)

	encoded, err := json.Marshal(intel)
	if err != nil {
		return fmt.Errorf("failed to encode intelligence: %w", err)
	}
	if _, err := tx.Exec(`UPDATE sessions SET intelligence = ? WHERE id = ?`, string(encoded), id); err != nil {
		return fmt.Errorf("failed to store intelligence: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) SetGoal(id string, goal domain.Goal) error {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin goal update: %w", err)
	}
	defer tx.Rollback()

	var current, completedRaw string
	err = tx.QueryRow(`SELECT current_goal, goals_completed FROM sessions WHERE id = ?`, id).
		Scan(&current, &completedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return unknownSession(id)
	}
	if err != nil {
		return fmt.Errorf("failed to load goal state: %w", err)
	}

	var completed []domain.Goal
	if completedRaw != "" {
		if err := json.Unmarshal([]byte(completedRaw), &completed); err != nil {
			return fmt.Errorf("failed to decode completed goals: %w", err)
		}
	}
	if current != "" && domain.Goal(current) != goal {
		completed = appendGoal(completed, domain.Goal(current))
	}

	encoded, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("failed to encode completed goals: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE sessions SET current_goal = ?, goals_completed = ? WHERE id = ?`,
		string(goal), string(encoded), id,
	); err != nil {
		return fmt.Errorf("failed to store goal: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) MarkCallbackSent(id string) error {
	res, err := s.db.sql.Exec(`UPDATE sessions SET callback_sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark callback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return unknownSession(id)
	}
	return nil
}

func (s *SQLiteStore) CallbackSent(id string) (bool, error) {
	var sent int
	err := s.db.sql.QueryRow(`SELECT callback_sent FROM sessions WHERE id = ?`, id).Scan(&sent)
	if errors.Is(err, sql.ErrNoRows) {
		return false, unknownSession(id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read callback flag: %w", err)
	}
	return sent != 0, nil
}

func (s *SQLiteStore) SerializedIntelligence(id string) (map[string][]string, error) {
	sess, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}
	return sess.Intelligence.Serialized(), nil
}

func (s *SQLiteStore) List() ([]domain.SessionSummary, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, intelligence, total_messages, callback_sent, current_goal, created_at, last_activity_at
		 FROM sessions ORDER BY last_activity_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		var (
			sum       domain.SessionSummary
			intelRaw  string
			sent      int
			createdAt string
			activity  string
		)
		if err := rows.Scan(&sum.ID, &intelRaw, &sum.TotalMessages, &sent, &sum.CurrentGoal, &createdAt, &activity); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sum.CallbackSent = sent != 0
		sum.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		sum.LastActivityAt, _ = time.Parse(tsFormat, activity)

		intel := domain.NewIntelligence()
		if intelRaw != "" && intelRaw != "{}" {
			if err := json.Unmarshal([]byte(intelRaw), &intel); err == nil {
				sum.ArtifactCount = intel.Count()
			}
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	if out == nil {
		out = []domain.SessionSummary{}
	}
	return out, nil
}

func (s *SQLiteStore) Delete(id string) error {
	if _, err := s.db.sql.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ExpireBefore(cutoff time.Time) ([]string, error) {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin expiry: %w", err)
	}
	defer tx.Rollback()

	mark := cutoff.UTC().Format(tsFormat)
	rows, err := tx.Query(`SELECT id FROM sessions WHERE last_activity_at < ? ORDER BY id`, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired sessions: %w", err)
	}
	var expired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expired id: %w", err)
		}
		expired = append(expired, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expired ids: %w", err)
	}

	if len(expired) > 0 {
		if _, err := tx.Exec(`DELETE FROM sessions WHERE last_activity_at < ?`, mark); err != nil {
			return nil, fmt.Errorf("failed to delete expired sessions: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expiry: %w", err)
	}
	return expired, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// loadSession reads the session row without its transcript.
func (s *SQLiteStore) loadSession(id string) (*domain.Session, error) {
	var (
		sess         domain.Session
		intelRaw     string
		sent         int
		goal         string
		completedRaw string
		createdAt    string
		activity     string
	)
	err := s.db.sql.QueryRow(
		`SELECT id, intelligence, total_messages, callback_sent, current_goal, goals_completed, created_at, last_activity_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &intelRaw, &sess.TotalMessages, &sent, &goal, &completedRaw, &createdAt, &activity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, unknownSession(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sess.CallbackSent = sent != 0
	sess.CurrentGoal = domain.Goal(goal)
	sess.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	sess.LastActivityAt, _ = time.Parse(tsFormat, activity)

	sess.Intelligence = domain.NewIntelligence()
	if intelRaw != "" && intelRaw != "{}" {
		if err := json.Unmarshal([]byte(intelRaw), &sess.Intelligence); err != nil {
			return nil, fmt.Errorf("failed to decode intelligence: %w", err)
		}
	}
	if completedRaw != "" && completedRaw != "[]" {
		if err := json.Unmarshal([]byte(completedRaw), &sess.GoalsCompleted); err != nil {
			return nil, fmt.Errorf("failed to decode completed goals: %w", err)
		}
	}
	return &sess, nil
}
