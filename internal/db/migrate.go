package db

import (
	"database/sql"
	"fmt"
)

// OpenSessionIndex is the partial unique index that enforces one open
// session per user. Repositories match on its name when translating
// constraint violations.
const OpenSessionIndex = "ux_task_time_logs_open_per_user"

// Migrate runs all schema migrations. Every statement is idempotent and
// valid for both SQLite and PostgreSQL.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as RFC3339 UTC text so lexical order matches
// chronological order in both dialects.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		planned_date TEXT,
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS assigned_tasks (
		id                      TEXT PRIMARY KEY,
		task_id                 TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		client_id               TEXT NOT NULL DEFAULT '',
		executor_id             TEXT,
		is_active               INTEGER NOT NULL DEFAULT 1,
		task_status             TEXT,
		completion_date         TEXT,
		completion_time_minutes INTEGER,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assigned_tasks_executor ON assigned_tasks(executor_id)`,

	`CREATE TABLE IF NOT EXISTS task_time_logs (
		id               TEXT PRIMARY KEY,
		assigned_task_id TEXT NOT NULL REFERENCES assigned_tasks(id) ON DELETE CASCADE,
		user_id          TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT,
		log_status       TEXT NOT NULL
		                 CHECK(log_status IN ('in_progress','paused','completed')),
		duration_minutes INTEGER,
		action           TEXT
		                 CHECK(action IS NULL OR action IN ('start','pause','resume','stop'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_time_logs_task ON task_time_logs(assigned_task_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_task_time_logs_user ON task_time_logs(user_id, start_time)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ` + OpenSessionIndex + ` ON task_time_logs(user_id)
		WHERE log_status = 'in_progress' AND end_time IS NULL`,
}
