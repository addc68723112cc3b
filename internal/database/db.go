// Package database implements the persistence gateway on PostgreSQL via
// pgx. All turn-state writes go through conditional updates so concurrent
// processors can never double-apply an action.
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies it with a short ping. When url is
// empty the connection string is assembled from the POSTGRES_* variables.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		url = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("PG_HOST"),
			os.Getenv("PG_PORT"),
			os.Getenv("PG_DATABASE"),
		)
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	username TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS games (
	id UUID PRIMARY KEY,
	join_code TEXT NOT NULL,
	status TEXT NOT NULL,
	host_user_id UUID NOT NULL REFERENCES users(id),
	board_pack TEXT NOT NULL,
	starting_cash INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY,
	game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	position INT NOT NULL DEFAULT 0,
	eliminated BOOLEAN NOT NULL DEFAULT FALSE,
	join_order INT NOT NULL,
	UNIQUE (game_id, user_id),
	UNIQUE (game_id, join_order)
);

CREATE TABLE IF NOT EXISTS turn_states (
	game_id UUID PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
	version BIGINT NOT NULL,
	state JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	version BIGINT NOT NULL,
	type TEXT NOT NULL,
	payload JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (game_id, version)
);

CREATE TABLE IF NOT EXISTS ownership (
	game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	tile_index INT NOT NULL,
	player_id UUID NOT NULL REFERENCES players(id),
	development INT NOT NULL DEFAULT 0,
	mortgaged BOOLEAN NOT NULL DEFAULT FALSE,
	loan_id UUID,
	PRIMARY KEY (game_id, tile_index)
);
`

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
