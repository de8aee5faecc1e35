package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing
const (
	maxConns = 25
	minConns = 5
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames builds environment-prefixed table names
type TableNames struct {
	prefix string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{prefix: prefix}
}

// For returns the table that stores the given collection
func (t *TableNames) For(collection string) string {
	return fmt.Sprintf("%s%s", t.prefix, collection)
}

// Prefix returns the table prefix
func (t *TableNames) Prefix() string {
	return t.prefix
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Connections through PgBouncer in transaction pooling mode (port 6543) cannot
// use prepared statements, so for that port the default statement cache is
// replaced by QueryExecModeCacheDescribe. An explicit default_query_exec_mode
// in the connection string takes precedence.
//
// Table names are interpolated with fmt.Sprintf before statements are sent,
// so each environment prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
