package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations. Intelligence
// and completed goals are stored as JSON columns; the set semantics live
// in the domain types, not the schema.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions and messages",
		SQL: `
			CREATE TABLE sessions (
				id               TEXT PRIMARY KEY,
				intelligence     TEXT NOT NULL DEFAULT '{}',
				total_messages   INTEGER NOT NULL DEFAULT 0,
				callback_sent    INTEGER NOT NULL DEFAULT 0,
				current_goal     TEXT NOT NULL DEFAULT '',
				goals_completed  TEXT NOT NULL DEFAULT '[]',
				created_at       TEXT NOT NULL,
				last_activity_at TEXT NOT NULL
			);

			CREATE INDEX idx_sessions_last_activity ON sessions (last_activity_at);

			CREATE TABLE messages (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				origin      TEXT NOT NULL,
				text        TEXT NOT NULL,
				timestamp   TEXT NOT NULL
			);

			CREATE INDEX idx_messages_session ON messages (session_id, id);
		`,
	},
}
