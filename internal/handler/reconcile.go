package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"notes/internal/domain"
	"notes/internal/domain/services"
	"notes/internal/httputil"
)

// ReconcilerLookup finds the reconciler of a category
type ReconcilerLookup func(category string) (services.Reconciler, bool)

// ReconcileHandler triggers reconciliations on demand
type ReconcileHandler struct {
	lookup ReconcilerLookup
	logger *slog.Logger
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(lookup ReconcilerLookup, logger *slog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		lookup: lookup,
		logger: logger,
	}
}

// Reconcile runs one reconciliation of a category and returns its result.
// Returns 409 when a run for the category is already in progress.
// POST /api/reconcile/{category}?dryRun=true
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	rec, ok := h.lookup(category)
	if !ok {
		handleError(w, &domain.NotFoundError{Message: "unknown category " + category})
		return
	}

	dryRun := httputil.QueryBool(r, "dryRun")
	result, err := rec.Run(r.Context(), dryRun)
	if err != nil {
		h.logger.Error("manual reconciliation failed",
			"category", rec.Category().Name,
			"dry_run", dryRun,
			"error", err,
		)
		if errors.Is(err, domain.ErrReconcileInProgress) {
			httputil.RespondErrorWithExtras(w, http.StatusConflict, err.Error(), map[string]interface{}{
				"category": rec.Category().Name,
			})
			return
		}
		handleError(w, err)
		return
	}

	h.logger.Info("manual reconciliation finished",
		"category", result.Category,
		"orphans", len(result.Orphans),
		"deleted", result.Deleted,
		"dry_run", result.DryRun,
	)

	httputil.RespondJSON(w, http.StatusOK, result)
}
