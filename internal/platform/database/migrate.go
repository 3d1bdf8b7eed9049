package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the two tables the tracker needs. Statements are idempotent
// so the server can run them on every startup.
//
// Task reference columns carry no foreign keys on purpose: deleting an account
// leaves its tasks in place with a dangling reference, which the list query
// resolves to null.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL DEFAULT 'user',
			permissions     TEXT NOT NULL DEFAULT 'read',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'open',
			assigned_to TEXT,
			created_by  TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}
