package reconcile

import (
	"fmt"
	"log/slog"

	"notes/internal/config"
	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"
)

// SetupRunner creates one reconciler per category, sharing objects and
// metrics, and wraps them in a runner driven by the configured interval.
func SetupRunner(
	cfg *config.Config,
	categories []content.Category,
	items map[string]repositories.ItemRepository,
	objects repositories.ObjectStore,
	metrics *Metrics,
	logger *slog.Logger,
) (*Runner, error) {
	strategy, err := ParseMatchStrategy(cfg.ReconcileMatch)
	if err != nil {
		return nil, err
	}

	reconcilers := make([]*Reconciler, 0, len(categories))
	for _, c := range categories {
		repo, ok := items[c.Name]
		if !ok {
			return nil, fmt.Errorf("no item repository for category %s", c.Name)
		}
		reconcilers = append(reconcilers, New(repo, objects, Config{
			Category:            c,
			Strategy:            strategy,
			DryRun:              cfg.ReconcileDryRun,
			SkipEmptyReferences: cfg.ReconcileSkipEmpty,
		}, metrics, logger))
	}

	scheduler := NewScheduler(cfg.ReconcileInterval, cfg.ReconcileRunOnStart, logger)

	logger.Info("reconcilers configured",
		"categories", len(reconcilers),
		"interval", cfg.ReconcileInterval.String(),
		"match", strategy.Name(),
		"dry_run", cfg.ReconcileDryRun,
		"skip_empty", cfg.ReconcileSkipEmpty,
	)

	return NewRunner(scheduler, logger, reconcilers...), nil
}
