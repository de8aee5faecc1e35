package repositories

import (
	"context"

	"notes/internal/domain/models/content"
)

// ItemRepository defines data access operations for one category's items
type ItemRepository interface {
	// Find returns one page of items matching the filter, newest first
	Find(ctx context.Context, filter content.ItemFilter, offset, limit int) ([]content.Item, error)

	// Count returns the number of items matching the filter
	Count(ctx context.Context, filter content.ItemFilter) (int64, error)

	// Insert creates a new item and sets its ID
	Insert(ctx context.Context, item *content.Item) error

	// Update applies the non-nil fields of patch to the item with the given ID
	Update(ctx context.Context, id string, patch *content.ItemPatch) error

	// Delete physically removes the item with the given ID
	Delete(ctx context.Context, id string) error

	// AllContent returns the content field of every item (full scan)
	AllContent(ctx context.Context) ([]string, error)
}
