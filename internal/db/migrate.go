package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// duplicates from re-runs are tolerated.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		org_id       TEXT NOT NULL DEFAULT '',
		user_id      TEXT NOT NULL,
		framework_id TEXT NOT NULL,
		current_step TEXT NOT NULL,
		skip_counts  TEXT NOT NULL DEFAULT '{}',
		turns_on_step INTEGER NOT NULL DEFAULT 0,
		last_question TEXT NOT NULL DEFAULT '',
		started_at   TEXT NOT NULL,
		closed_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,

	`CREATE TABLE IF NOT EXISTS reflections (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		step_name  TEXT NOT NULL,
		raw_input  TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL DEFAULT '{}',
		marker     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reflections_session ON reflections(session_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reflections_session_step ON reflections(session_id, step_name)`,
}
