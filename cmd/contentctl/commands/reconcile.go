package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes/internal/domain/models/content"
	"notes/internal/service/reconcile"
	"notes/internal/storage/s3"

	"github.com/spf13/cobra"
)

var (
	reconcileDryRun bool
	reconcileJSON   bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [category...]",
	Short: "Delete stored assets that no content item references",
	Long: `Run one orphan asset reconciliation for the given categories
(all configured categories when none are given). Categories run concurrently.

Examples:
  # Preview what would be deleted
  contentctl reconcile --dry-run

  # Reconcile a single category
  contentctl reconcile Echarts`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report orphans without deleting them")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Print results as JSON")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := env.openStores(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = stores.Close(closeCtx)
	}()

	objectStore, err := s3.NewFromConfig(ctx, s3.Config{
		Bucket:          env.cfg.OSSBucket,
		Region:          env.cfg.OSSRegion,
		Endpoint:        env.cfg.OSSEndpoint,
		AccessKeyID:     env.cfg.OSSAccessKeyID,
		SecretAccessKey: env.cfg.OSSAccessKeySecret,
		ForcePathStyle:  env.cfg.OSSForcePathStyle,
	}, env.logger)
	if err != nil {
		return err
	}

	runner, err := reconcile.SetupRunner(env.cfg, env.categories, stores.Items, objectStore, reconcile.NewMetrics(nil), env.logger)
	if err != nil {
		return err
	}

	// Categories that succeeded are reported even when others failed
	results, runErr := runner.RunAll(ctx, reconcileDryRun, args...)

	if reconcileJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
		return runErr
	}

	for _, result := range results {
		printResult(cmd, result)
	}
	return runErr
}

func printResult(cmd *cobra.Command, result *content.ReconcileResult) {
	out := cmd.OutOrStdout()

	mode := "deleted"
	if result.DryRun {
		mode = "would delete"
	}

	fmt.Fprintf(out, "%s (%s): %d documents, %d objects, %d orphans\n",
		result.Category, result.Prefix, result.Documents, result.Objects, len(result.Orphans))
	if result.Guarded {
		fmt.Fprintln(out, "  skipped: no content references any asset")
		return
	}
	for _, key := range result.Orphans {
		fmt.Fprintf(out, "  %s %s\n", mode, key)
	}
}
