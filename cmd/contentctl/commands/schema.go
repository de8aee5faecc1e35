package commands

import (
	"context"
	"fmt"
	"time"

	"notes/internal/config"
	"notes/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var schemaDrop bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the Postgres category tables",
	Long: `Create the category tables of the Postgres document store if they are
missing. With --drop the tables are dropped first (refused in prod).

MongoDB creates collections on first write; this command is a no-op there.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaDrop, "drop", false, "Drop the category tables before creating them")
}

func runSchema(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if env.cfg.DocumentStore != config.StorePostgres {
		fmt.Fprintf(cmd.OutOrStdout(), "document store is %s, nothing to do\n", env.cfg.DocumentStore)
		return nil
	}

	// Prevent destructive operations in production
	if schemaDrop && env.cfg.Environment == "prod" {
		return fmt.Errorf("refusing to drop tables in the prod environment")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	pool, err := postgres.CreateConnectionPool(ctx, env.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tables := postgres.NewTableNames(env.cfg.TablePrefix)

	if schemaDrop {
		if err := postgres.DropSchema(ctx, pool, tables, env.categories); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "tables dropped")
	}

	if err := postgres.EnsureSchema(ctx, pool, tables, env.categories); err != nil {
		return err
	}

	for _, c := range env.categories {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", c.Name, tables.For(c.Collection))
	}
	return nil
}
