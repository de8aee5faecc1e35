package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcome label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped" // Overlapping run
	StatusGuarded = "guarded" // Empty reference set with the guard enabled
)

// Metrics provides Prometheus metrics for orphan asset reconciliation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runsTotal      *prometheus.CounterVec
	orphansTotal   *prometheus.CounterVec
	deletedTotal   *prometheus.CounterVec
	objectsGauge   *prometheus.GaugeVec
	runDuration    *prometheus.HistogramVec
	lastSuccessful *prometheus.GaugeVec
}

// NewMetrics creates reconcile metrics and registers them with registry.
// If registry is nil, metrics are created but not registered (useful for testing).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "runs_total",
				Help:      "Reconciliation runs by category and outcome",
			},
			[]string{"category", "status"},
		),
		orphansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "orphans_found_total",
				Help:      "Orphaned objects found by category",
			},
			[]string{"category"},
		),
		deletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "objects_deleted_total",
				Help:      "Orphaned objects deleted by category",
			},
			[]string{"category"},
		),
		objectsGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "objects",
				Help:      "Objects under the category prefix at the last run",
			},
			[]string{"category"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "run_duration_seconds",
				Help:      "Duration of reconciliation runs",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"category"},
		),
		lastSuccessful: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: "reconcile",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run",
			},
			[]string{"category"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.runsTotal,
			m.orphansTotal,
			m.deletedTotal,
			m.objectsGauge,
			m.runDuration,
			m.lastSuccessful,
		)
	}

	return m
}

func (m *Metrics) recordSkipped(category string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(category, StatusSkipped).Inc()
}

func (m *Metrics) recordFailure(category string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(category, StatusError).Inc()
	m.runDuration.WithLabelValues(category).Observe(duration.Seconds())
}

func (m *Metrics) recordResult(category, status string, objects, orphans, deleted int, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(category, status).Inc()
	m.objectsGauge.WithLabelValues(category).Set(float64(objects))
	m.orphansTotal.WithLabelValues(category).Add(float64(orphans))
	m.deletedTotal.WithLabelValues(category).Add(float64(deleted))
	m.runDuration.WithLabelValues(category).Observe(duration.Seconds())
	m.lastSuccessful.WithLabelValues(category).SetToCurrentTime()
}
