// Package commands implements the contentctl operations CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"notes/internal/config"
	"notes/internal/domain/models/content"
	"notes/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"

	// Global flags.
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "contentctl",
	Short: "Operations tool for the notes content service",
	Long: `contentctl runs one-off operations against the content stores:
orphan asset reconciliation, schema management and sample data.

Configuration is read from the environment (and .env), the same as the server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load (ignored if missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(seedCmd)
}

// environment is the configuration shared by every subcommand
type environment struct {
	cfg        *config.Config
	categories []content.Category
	logger     *slog.Logger
}

// loadEnvironment loads .env, the configuration and the category table
func loadEnvironment() (*environment, error) {
	_ = godotenv.Load(envFile)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	categories, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &environment{cfg: cfg, categories: categories, logger: logger}, nil
}

// openStores connects to the configured document store
func (e *environment) openStores(ctx context.Context) (*repository.Stores, error) {
	return repository.SetupItemRepositories(ctx, e.cfg, e.categories, e.logger)
}
