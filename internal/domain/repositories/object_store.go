package repositories

import (
	"context"

	"notes/internal/domain/models/content"
)

// ObjectStore is the subset of the bucket API used for asset reconciliation.
// The bucket is fixed when the store is constructed.
type ObjectStore interface {
	// Bucket returns the bucket this store operates on
	Bucket() string

	// List returns every object whose key starts with prefix
	List(ctx context.Context, prefix string) ([]content.StoredObject, error)

	// DeleteMulti removes the given keys. Keys that no longer exist are not an error.
	DeleteMulti(ctx context.Context, keys []string) error
}
