package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		date          TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		duration_min  INTEGER NOT NULL,
		type          TEXT NOT NULL DEFAULT 'work'
		              CHECK(type IN ('work','meeting','personal','break')),
		completed     INTEGER NOT NULL DEFAULT 0,
		recurrence_id TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_recurrence ON tasks(recurrence_id)`,
}

// Migrate runs all schema migrations. Statements are idempotent and the
// full list re-runs on every open; ALTER TABLE additions tolerate the
// duplicate-column error SQLite raises on re-application.
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
