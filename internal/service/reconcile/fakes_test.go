package reconcile

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"notes/internal/domain/models/content"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testCategory = content.Category{
	Name:          "Echarts",
	Collection:    "echartslist",
	StoragePrefix: "list-content/Echarts/",
}

// fakeItems serves a fixed set of content fields
type fakeItems struct {
	mu       sync.Mutex
	contents []string
	err      error
	calls    int
}

func (f *fakeItems) Find(ctx context.Context, filter content.ItemFilter, offset, limit int) ([]content.Item, error) {
	return nil, nil
}

func (f *fakeItems) Count(ctx context.Context, filter content.ItemFilter) (int64, error) {
	return int64(len(f.contents)), nil
}

func (f *fakeItems) Insert(ctx context.Context, item *content.Item) error {
	return nil
}

func (f *fakeItems) Update(ctx context.Context, id string, patch *content.ItemPatch) error {
	return nil
}

func (f *fakeItems) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeItems) AllContent(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.contents...), nil
}

// fakeObjects is an in-memory bucket
type fakeObjects struct {
	mu      sync.Mutex
	keys    map[string]bool
	listErr error
	delErr  error

	// keepDeleted makes DeleteMulti succeed without removing anything,
	// like a listing that lags behind deletes
	keepDeleted bool

	// listHook runs inside List before the listing is taken
	listHook func()

	deleteCalls [][]string
}

func newFakeObjects(keys ...string) *fakeObjects {
	f := &fakeObjects{keys: make(map[string]bool)}
	for _, k := range keys {
		f.keys[k] = true
	}
	return f
}

func (f *fakeObjects) Bucket() string { return "test-bucket" }

func (f *fakeObjects) List(ctx context.Context, prefix string) ([]content.StoredObject, error) {
	if f.listHook != nil {
		f.listHook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	var keys []string
	for k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	objects := make([]content.StoredObject, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, content.StoredObject{Key: k, Bucket: "test-bucket"})
	}
	return objects, nil
}

func (f *fakeObjects) DeleteMulti(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, append([]string(nil), keys...))
	if f.delErr != nil {
		return f.delErr
	}
	if !f.keepDeleted {
		for _, k := range keys {
			delete(f.keys, k)
		}
	}
	return nil
}

func (f *fakeObjects) remaining() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeObjects) deletes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.deleteCalls...)
}
