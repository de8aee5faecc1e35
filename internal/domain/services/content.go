package services

import (
	"context"

	"notes/internal/domain/models/content"
)

// UpsertItemRequest is an insert/update of one item. When ID is set the item
// is updated and only non-nil fields change (transport-agnostic, the handler
// maps JSON presence onto nil/non-nil).
type UpsertItemRequest struct {
	ID          string
	Title       *string
	Tags        *[]string
	Description *string
	Content     *string
	IsDeleted   *bool
}

// UpsertItemResult reports what an upsert did
type UpsertItemResult struct {
	ID       string `json:"id"`
	Inserted bool   `json:"inserted"`
}

// ItemService defines business logic operations for content list items
type ItemService interface {
	// List returns one page of a category's items and the filtered total
	List(ctx context.Context, category string, query *content.ListQuery) (*content.ListResult, error)

	// Upsert inserts a new item, or updates the item named by req.ID
	Upsert(ctx context.Context, category string, req *UpsertItemRequest) (*UpsertItemResult, error)

	// Delete removes an item. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, category, id string) error
}

// Reconciler runs orphan asset reconciliation for one category
type Reconciler interface {
	// Category returns the category this reconciler owns
	Category() content.Category

	// Run performs one reconciliation. dryRun reports orphans without deleting.
	// Returns domain.ErrReconcileInProgress if a run is already active.
	Run(ctx context.Context, dryRun bool) (*content.ReconcileResult, error)
}
