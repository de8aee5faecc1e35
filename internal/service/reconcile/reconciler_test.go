package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"notes/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler(items *fakeItems, objects *fakeObjects, cfg Config) *Reconciler {
	if cfg.Category.Name == "" {
		cfg.Category = testCategory
	}
	return New(items, objects, cfg, nil, discardLogger())
}

// metricValue returns the value of a counter or gauge sample with the given labels
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestReconciler_DeletesUnreferencedObjects(t *testing.T) {
	items := &fakeItems{contents: []string{
		"![a](https://cdn/list-content/Echarts/a.png)",
		"see list-content/Echarts/b.png",
	}}
	objects := newFakeObjects(
		"list-content/Echarts/a.png",
		"list-content/Echarts/b.png",
		"list-content/Echarts/c.png",
		"list-content/Webpack/z.png",
	)

	result, err := newTestReconciler(items, objects, Config{}).Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, "Echarts", result.Category)
	assert.Equal(t, 2, result.Documents)
	assert.Equal(t, 3, result.Objects)
	assert.Equal(t, []string{"list-content/Echarts/c.png"}, result.Orphans)
	assert.Equal(t, 1, result.Deleted)
	assert.False(t, result.DryRun)

	assert.Equal(t, [][]string{{"list-content/Echarts/c.png"}}, objects.deletes())
	assert.Equal(t, []string{
		"list-content/Echarts/a.png",
		"list-content/Echarts/b.png",
		"list-content/Webpack/z.png",
	}, objects.remaining())
}

func TestReconciler_EmptyCollectionDeletesEverything(t *testing.T) {
	items := &fakeItems{}
	objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png")

	result, err := newTestReconciler(items, objects, Config{}).Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Documents)
	assert.Equal(t, []string{"list-content/Echarts/a.png", "list-content/Echarts/b.png"}, result.Orphans)
	assert.Equal(t, 2, result.Deleted)
	assert.Empty(t, objects.remaining())
}

func TestReconciler_SkipEmptyReferencesGuard(t *testing.T) {
	items := &fakeItems{contents: []string{"", ""}}
	objects := newFakeObjects("list-content/Echarts/a.png")

	result, err := newTestReconciler(items, objects, Config{SkipEmptyReferences: true}).Run(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, result.Guarded)
	assert.Empty(t, result.Orphans)
	assert.Zero(t, result.Deleted)
	assert.Empty(t, objects.deletes())
	assert.Equal(t, []string{"list-content/Echarts/a.png"}, objects.remaining())
}

func TestReconciler_NoObjectsMakesNoDeleteCall(t *testing.T) {
	items := &fakeItems{contents: []string{"x"}}
	objects := newFakeObjects()

	result, err := newTestReconciler(items, objects, Config{}).Run(context.Background(), false)
	require.NoError(t, err)

	assert.Zero(t, result.Objects)
	assert.Empty(t, result.Orphans)
	assert.Empty(t, objects.deletes())
}

func TestReconciler_AllReferencedMakesNoDeleteCall(t *testing.T) {
	items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
	objects := newFakeObjects("list-content/Echarts/a.png")

	result, err := newTestReconciler(items, objects, Config{}).Run(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, result.Orphans)
	assert.Empty(t, objects.deletes())
}

func TestReconciler_DryRun(t *testing.T) {
	tests := []struct {
		name      string
		cfgDryRun bool
		runDryRun bool
	}{
		{"requested by caller", false, true},
		{"configured", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
			objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png")

			rec := newTestReconciler(items, objects, Config{DryRun: tt.cfgDryRun})
			result, err := rec.Run(context.Background(), tt.runDryRun)
			require.NoError(t, err)

			assert.True(t, result.DryRun)
			assert.Equal(t, []string{"list-content/Echarts/b.png"}, result.Orphans)
			assert.Zero(t, result.Deleted)
			assert.Empty(t, objects.deletes())
			assert.Len(t, objects.remaining(), 2)
		})
	}
}

func TestReconciler_ExactStrategy(t *testing.T) {
	items := &fakeItems{contents: []string{"![x](https://cdn/list-content/Echarts/bigimg.png)"}}
	objects := newFakeObjects("list-content/Echarts/bigimg.png", "list-content/Echarts/img.png")

	substring, err := newTestReconciler(items, objects, Config{DryRun: true}).Run(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, substring.Orphans)

	exact, err := newTestReconciler(items, objects, Config{DryRun: true, Strategy: ExactMatch{}}).Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"list-content/Echarts/img.png"}, exact.Orphans)
}

func TestReconciler_RepeatedRunsAreIdempotent(t *testing.T) {
	t.Run("listing reflects deletes", func(t *testing.T) {
		items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
		objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png")
		rec := newTestReconciler(items, objects, Config{})

		first, err := rec.Run(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Deleted)

		second, err := rec.Run(context.Background(), false)
		require.NoError(t, err)
		assert.Empty(t, second.Orphans)
		assert.Len(t, objects.deletes(), 1)
	})

	t.Run("listing lags behind deletes", func(t *testing.T) {
		items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
		objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png")
		objects.keepDeleted = true
		rec := newTestReconciler(items, objects, Config{})

		first, err := rec.Run(context.Background(), false)
		require.NoError(t, err)
		second, err := rec.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, first.Orphans, second.Orphans)
		assert.Equal(t, [][]string{
			{"list-content/Echarts/b.png"},
			{"list-content/Echarts/b.png"},
		}, objects.deletes())
	})
}

func TestReconciler_StageErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		items   *fakeItems
		objects func() *fakeObjects
		stage   string
	}{
		{
			name:    "load documents",
			items:   &fakeItems{err: boom},
			objects: func() *fakeObjects { return newFakeObjects("list-content/Echarts/a.png") },
			stage:   "reconcile Echarts: load documents: boom",
		},
		{
			name:  "list objects",
			items: &fakeItems{},
			objects: func() *fakeObjects {
				o := newFakeObjects()
				o.listErr = boom
				return o
			},
			stage: "reconcile Echarts: list objects: boom",
		},
		{
			name:  "delete objects",
			items: &fakeItems{},
			objects: func() *fakeObjects {
				o := newFakeObjects("list-content/Echarts/a.png")
				o.delErr = boom
				return o
			},
			stage: "reconcile Echarts: delete objects: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestReconciler(tt.items, tt.objects(), Config{}).Run(context.Background(), false)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, boom)
			assert.EqualError(t, err, tt.stage)
		})
	}
}

func TestReconciler_OverlappingRunIsSkipped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
	objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png")
	objects.listHook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	reg := prometheus.NewRegistry()
	rec := New(items, objects, Config{Category: testCategory}, NewMetrics(reg), discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := rec.Run(context.Background(), false)
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never reached the object listing")
	}

	_, err := rec.Run(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrReconcileInProgress)

	close(release)
	require.NoError(t, <-done)

	items.mu.Lock()
	assert.Equal(t, 1, items.calls)
	items.mu.Unlock()
	assert.Len(t, objects.deletes(), 1)
	assert.Equal(t, 1.0, metricValue(t, reg, "notes_reconcile_runs_total", map[string]string{"category": "Echarts", "status": StatusSkipped}))
	assert.Equal(t, 1.0, metricValue(t, reg, "notes_reconcile_runs_total", map[string]string{"category": "Echarts", "status": StatusSuccess}))

	// The lock is released after the first run
	_, err = rec.Run(context.Background(), false)
	assert.NoError(t, err)
}

func TestReconciler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	items := &fakeItems{contents: []string{"list-content/Echarts/a.png"}}
	objects := newFakeObjects("list-content/Echarts/a.png", "list-content/Echarts/b.png", "list-content/Echarts/c.png")

	rec := New(items, objects, Config{Category: testCategory}, NewMetrics(reg), discardLogger())
	_, err := rec.Run(context.Background(), false)
	require.NoError(t, err)

	echarts := map[string]string{"category": "Echarts"}
	assert.Equal(t, 2.0, metricValue(t, reg, "notes_reconcile_orphans_found_total", echarts))
	assert.Equal(t, 2.0, metricValue(t, reg, "notes_reconcile_objects_deleted_total", echarts))
	assert.Equal(t, 3.0, metricValue(t, reg, "notes_reconcile_objects", echarts))

	items.err = errors.New("down")
	_, err = rec.Run(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 1.0, metricValue(t, reg, "notes_reconcile_runs_total", map[string]string{"category": "Echarts", "status": StatusError}))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordSkipped("Echarts")
		m.recordFailure("Echarts", time.Second)
		m.recordResult("Echarts", StatusSuccess, 1, 1, 1, time.Second)
	})
}
