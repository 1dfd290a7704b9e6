package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT        NOT NULL UNIQUE,
		password_hash TEXT        NOT NULL,
		roles         TEXT[]      NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT        NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		sku         TEXT,
		barcode     TEXT           NOT NULL UNIQUE,
		name        TEXT           NOT NULL,
		description TEXT,
		price       NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		category_id BIGINT         NOT NULL REFERENCES categories(id)
	)`,
	`CREATE INDEX IF NOT EXISTS products_name_idx ON products (name, id)`,
	`CREATE INDEX IF NOT EXISTS products_category_idx ON products (category_id)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
