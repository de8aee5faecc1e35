package postgres

import (
	"context"
	"fmt"

	"notes/internal/domain/models/content"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the table of every category if it does not exist.
// seq preserves insertion order for listing since created_time is restamped
// on every update.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, categories []content.Category) error {
	for _, c := range categories {
		table := tables.For(c.Collection)
		createTable := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGSERIAL,
				id UUID PRIMARY KEY,
				title TEXT NOT NULL DEFAULT '',
				tags TEXT[] NOT NULL DEFAULT '{}',
				description TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL DEFAULT '',
				created_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE
			)
		`, table)
		if _, err := pool.Exec(ctx, createTable); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}

	return nil
}

// DropSchema drops the table of every category
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, categories []content.Category) error {
	for _, c := range categories {
		table := tables.For(c.Collection)
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	return nil
}
