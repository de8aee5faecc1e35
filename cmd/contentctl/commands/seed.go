package commands

import (
	"context"
	"fmt"
	"time"

	"notes/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample items into empty categories",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if env.cfg.Environment == "prod" {
		return fmt.Errorf("refusing to seed the prod environment")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	stores, err := env.openStores(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()

	seeder := seed.NewContentSeeder(stores.Items, env.logger)
	inserted, err := seeder.Seed(ctx, env.categories, env.cfg.OSSBucket)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d sample items\n", inserted)
	return nil
}
