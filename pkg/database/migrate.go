package database

import (
	"context"
	"fmt"
)

// schema is applied idempotently at startup
var schema = []string{
	`CREATE TABLE IF NOT EXISTS signal_snapshots (
		ticker      TEXT PRIMARY KEY,
		final_signal TEXT NOT NULL DEFAULT '',
		payload     JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_signal_snapshots_signal ON signal_snapshots (final_signal)`,
}

// Migrate creates the tables the service needs
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return nil
}
