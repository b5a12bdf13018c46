package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// One row per user: the engine state as a versioned JSON document.
		`CREATE TABLE IF NOT EXISTS snapshots (
			user_id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		// Append-only audit log of engine events.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			ref TEXT,
			amount INTEGER DEFAULT 0,
			note TEXT,
			at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_at ON events(user_id, at);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_kind ON events(user_id, kind);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release (ignore if already present).
	alterStmts := []string{
		`ALTER TABLE snapshots ADD COLUMN role TEXT DEFAULT 'user';`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
