// Package reconcile deletes stored assets that no content item references.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"notes/internal/domain"
	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"
	"notes/internal/domain/services"
)

// Config selects the behaviour of one category's reconciler
type Config struct {
	Category content.Category

	// Strategy decides whether a key is referenced (default SubstringMatch)
	Strategy MatchStrategy

	// DryRun reports orphans without deleting them
	DryRun bool

	// SkipEmptyReferences turns a run with no referencing content into a no-op.
	// When false, an empty collection makes every object an orphan.
	SkipEmptyReferences bool
}

// Reconciler runs orphan asset reconciliation for one category.
// At most one run per Reconciler is active at a time.
type Reconciler struct {
	category  content.Category
	items     repositories.ItemRepository
	objects   repositories.ObjectStore
	strategy  MatchStrategy
	dryRun    bool
	skipEmpty bool
	metrics   *Metrics
	logger    *slog.Logger

	mu sync.Mutex
}

// New creates a reconciler for cfg.Category
func New(
	items repositories.ItemRepository,
	objects repositories.ObjectStore,
	cfg Config,
	metrics *Metrics,
	logger *slog.Logger,
) *Reconciler {
	strategy := cfg.Strategy
	if strategy == nil {
		strategy = SubstringMatch{}
	}

	return &Reconciler{
		category:  cfg.Category,
		items:     items,
		objects:   objects,
		strategy:  strategy,
		dryRun:    cfg.DryRun,
		skipEmpty: cfg.SkipEmptyReferences,
		metrics:   metrics,
		logger:    logger.With("category", cfg.Category.Name),
	}
}

// Category returns the category this reconciler owns
func (r *Reconciler) Category() content.Category {
	return r.category
}

// Run performs one reconciliation. It returns domain.ErrReconcileInProgress
// without doing anything if another run of this category is active.
// The run is a dry run if either dryRun or the configured DryRun is set.
func (r *Reconciler) Run(ctx context.Context, dryRun bool) (*content.ReconcileResult, error) {
	if !r.mu.TryLock() {
		r.metrics.recordSkipped(r.category.Name)
		return nil, fmt.Errorf("%s: %w", r.category.Name, domain.ErrReconcileInProgress)
	}
	defer r.mu.Unlock()

	start := time.Now()
	result, err := r.reconcile(ctx, dryRun || r.dryRun, start)
	if err != nil {
		r.metrics.recordFailure(r.category.Name, time.Since(start))
		return nil, fmt.Errorf("reconcile %s: %w", r.category.Name, err)
	}

	result.Duration = time.Since(start)
	status := StatusSuccess
	if result.Guarded {
		status = StatusGuarded
	}
	r.metrics.recordResult(r.category.Name, status, result.Objects, len(result.Orphans), result.Deleted, result.Duration)

	return result, nil
}

func (r *Reconciler) reconcile(ctx context.Context, dryRun bool, start time.Time) (*content.ReconcileResult, error) {
	result := &content.ReconcileResult{
		Category:  r.category.Name,
		Prefix:    r.category.StoragePrefix,
		Orphans:   []string{},
		DryRun:    dryRun,
		StartedAt: start,
	}

	contents, err := r.items.AllContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	result.Documents = len(contents)
	references := strings.Join(contents, "")

	objects, err := r.objects.List(ctx, r.category.StoragePrefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	result.Objects = len(objects)

	if len(objects) == 0 {
		r.logger.Debug("no stored objects", "prefix", r.category.StoragePrefix)
		return result, nil
	}

	if references == "" && r.skipEmpty {
		r.logger.Warn("no content references any asset, skipping deletion",
			"documents", result.Documents,
			"objects", result.Objects,
		)
		result.Guarded = true
		return result, nil
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	result.Orphans = FindOrphans(references, keys, r.strategy)

	if len(result.Orphans) == 0 {
		return result, nil
	}

	r.logger.Debug("orphaned objects found", "orphans", result.Orphans)

	if dryRun {
		return result, nil
	}

	if err := r.objects.DeleteMulti(ctx, result.Orphans); err != nil {
		return nil, fmt.Errorf("delete objects: %w", err)
	}
	result.Deleted = len(result.Orphans)

	return result, nil
}

// Ensure Reconciler implements services.Reconciler.
var _ services.Reconciler = (*Reconciler)(nil)
