package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the two aggregate tables. Each aggregate is one JSONB row;
// the extra columns exist for lookups and unique constraints only.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id uuid PRIMARY KEY,
		admin_id uuid NOT NULL,
		date timestamptz NOT NULL,
		doc jsonb NOT NULL,
		created_at timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS events_admin_id_date_idx ON events (admin_id, date)`,
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY,
		email text NOT NULL,
		activation_token text NOT NULL,
		doc jsonb NOT NULL,
		created_at timestamptz NOT NULL,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_activation_token_key UNIQUE (activation_token)
	)`,
}

// Migrate applies the schema statements in order. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
