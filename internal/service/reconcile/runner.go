package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"notes/internal/domain"
	"notes/internal/domain/models/content"

	"golang.org/x/sync/errgroup"
)

// Runner owns the reconcilers of all categories and their scheduled tasks
type Runner struct {
	reconcilers []*Reconciler
	scheduler   *Scheduler
	logger      *slog.Logger

	mu      sync.Mutex
	handles []*Handle
}

// NewRunner creates a runner over reconcilers. scheduler may be nil when the
// runner is only used for one-shot runs.
func NewRunner(scheduler *Scheduler, logger *slog.Logger, reconcilers ...*Reconciler) *Runner {
	return &Runner{
		reconcilers: reconcilers,
		scheduler:   scheduler,
		logger:      logger,
	}
}

// Get returns the reconciler of a category (case-insensitive)
func (r *Runner) Get(category string) (*Reconciler, bool) {
	for _, rec := range r.reconcilers {
		if strings.EqualFold(rec.Category().Name, category) {
			return rec, true
		}
	}
	return nil, false
}

// Start schedules one periodic task per category
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.reconcilers {
		r.handles = append(r.handles, r.scheduler.Start(ctx, "reconcile-"+rec.Category().Name, r.tick(rec)))
	}
}

// Stop stops every scheduled task and waits for in-flight runs
func (r *Runner) Stop() {
	r.mu.Lock()
	handles := r.handles
	r.handles = nil
	r.mu.Unlock()

	for _, h := range handles {
		h.Stop()
	}
}

// tick returns the scheduled task for one reconciler. Failures are logged and
// the next tick retries independently.
func (r *Runner) tick(rec *Reconciler) Task {
	logger := r.logger.With("category", rec.Category().Name)

	return func(ctx context.Context) {
		result, err := rec.Run(ctx, false)
		switch {
		case errors.Is(err, domain.ErrReconcileInProgress):
			logger.Warn("reconciliation still running, tick skipped")
		case errors.Is(err, context.Canceled):
			logger.Info("reconciliation cancelled")
		case err != nil:
			logger.Error("reconciliation failed", "error", err)
		default:
			logger.Info("reconciliation finished",
				"documents", result.Documents,
				"objects", result.Objects,
				"orphans", len(result.Orphans),
				"deleted", result.Deleted,
				"dry_run", result.DryRun,
				"guarded", result.Guarded,
				"duration", result.Duration.String(),
			)
		}
	}
}

// RunAll runs the named categories (all when names is empty) concurrently
// once. Every category runs to completion regardless of the others. The
// results of the categories that succeeded are returned in category order
// together with the joined errors of those that failed.
func (r *Runner) RunAll(ctx context.Context, dryRun bool, names ...string) ([]*content.ReconcileResult, error) {
	selected := r.reconcilers
	if len(names) > 0 {
		selected = make([]*Reconciler, 0, len(names))
		for _, name := range names {
			rec, ok := r.Get(name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, name)
			}
			selected = append(selected, rec)
		}
	}

	results := make([]*content.ReconcileResult, len(selected))
	errs := make([]error, len(selected))

	var g errgroup.Group
	for i, rec := range selected {
		g.Go(func() error {
			results[i], errs[i] = rec.Run(ctx, dryRun)
			if errs[i] != nil {
				r.logger.Error("reconciliation failed", "category", rec.Category().Name, "error", errs[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	succeeded := make([]*content.ReconcileResult, 0, len(selected))
	for i := range selected {
		if errs[i] == nil {
			succeeded = append(succeeded, results[i])
		}
	}

	return succeeded, errors.Join(errs...)
}
