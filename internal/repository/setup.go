package repository

import (
	"context"
	"fmt"
	"log/slog"

	"notes/internal/config"
	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"
	"notes/internal/repository/mongo"
	"notes/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
)

// Stores holds one item repository per category plus the backend handles
type Stores struct {
	// Items maps category name to its repository
	Items map[string]repositories.ItemRepository

	// Backend handles; exactly one is set depending on cfg.DocumentStore
	Pool        *pgxpool.Pool
	Tables      *postgres.TableNames
	MongoClient *mongodriver.Client
}

// Close releases the backend connections
func (s *Stores) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.MongoClient != nil {
		if err := s.MongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect MongoDB: %w", err)
		}
	}
	return nil
}

// SetupItemRepositories connects to the configured document store and creates
// a repository for every category. For Postgres the category tables are
// created if missing.
func SetupItemRepositories(ctx context.Context, cfg *config.Config, categories []content.Category, logger *slog.Logger) (*Stores, error) {
	stores := &Stores{Items: make(map[string]repositories.ItemRepository, len(categories))}

	switch cfg.DocumentStore {
	case config.StorePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		stores.Pool = pool
		stores.Tables = postgres.NewTableNames(cfg.TablePrefix)

		if err := postgres.EnsureSchema(ctx, pool, stores.Tables, categories); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: stores.Tables,
			Logger: logger,
		}
		for _, c := range categories {
			stores.Items[c.Name] = postgres.NewItemRepository(repoConfig, c)
		}

		logger.Info("document store connected",
			"backend", config.StorePostgres,
			"table_prefix", stores.Tables.Prefix(),
		)

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		stores.MongoClient = client

		repoConfig := &mongo.RepositoryConfig{
			Database: client.Database(cfg.MongoDatabase),
			Logger:   logger,
		}
		for _, c := range categories {
			stores.Items[c.Name] = mongo.NewItemRepository(repoConfig, c)
		}

		logger.Info("document store connected",
			"backend", config.StoreMongo,
			"database", cfg.MongoDatabase,
		)

	default:
		return nil, fmt.Errorf("unsupported document store %q", cfg.DocumentStore)
	}

	return stores, nil
}
