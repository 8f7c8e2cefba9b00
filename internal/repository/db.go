package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the initial schema migration, including the
// server-side short-code generator used by the link service.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id                    TEXT PRIMARY KEY,
			email                 TEXT NOT NULL UNIQUE,
			password              TEXT NOT NULL,
			role                  TEXT NOT NULL DEFAULT 'reseller',
			subscription_status   TEXT NOT NULL DEFAULT 'inactive',
			subscription_end_date TIMESTAMPTZ,
			phone                 TEXT,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS teams (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS jerseys (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			team_id         TEXT NOT NULL REFERENCES teams(id) ON DELETE RESTRICT,
			image_url       TEXT NOT NULL DEFAULT '',
			image_public_id TEXT NOT NULL DEFAULT '',
			tags            TEXT[] NOT NULL DEFAULT '{}',
			created_by      TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_jerseys_team_id ON jerseys(team_id);
		CREATE INDEX IF NOT EXISTS idx_jerseys_created_at ON jerseys(created_at DESC);

		CREATE TABLE IF NOT EXISTS shared_links (
			short_code TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			jersey_ids TEXT[] NOT NULL CHECK (cardinality(jersey_ids) > 0),
			view_count INT NOT NULL DEFAULT 0,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_shared_links_user_id ON shared_links(user_id);

		CREATE OR REPLACE FUNCTION generate_short_code() RETURNS TEXT AS $$
		DECLARE
			alphabet TEXT := 'abcdefghijklmnopqrstuvwxyz0123456789';
			code TEXT;
		BEGIN
			LOOP
				code := '';
				FOR i IN 1..8 LOOP
					code := code || substr(alphabet, floor(random() * length(alphabet))::int + 1, 1);
				END LOOP;
				EXIT WHEN NOT EXISTS (SELECT 1 FROM shared_links WHERE short_code = code);
			END LOOP;
			RETURN code;
		END;
		$$ LANGUAGE plpgsql;
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
