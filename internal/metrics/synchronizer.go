package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	synchronizerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherhire",
		Subsystem: "synchronizer",
		Name:      "operations_total",
		Help:      "Count of registry synchronizer operations.",
	}, []string{"operation", "status"})

	synchronizerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cipherhire",
		Subsystem: "synchronizer",
		Name:      "operation_duration_seconds",
		Help:      "Duration of registry synchronizer operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	synchronizerLoadSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cipherhire",
		Subsystem: "synchronizer",
		Name:      "load_size",
		Help:      "Number of candidate records assembled per load.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	synchronizerReconcileFinishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cipherhire",
		Subsystem: "synchronizer",
		Name:      "reconcile_finished_total",
		Help:      "Count of interrupted creations finished by reconcile.",
	})

	synchronizerReconcileDiscardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cipherhire",
		Subsystem: "synchronizer",
		Name:      "reconcile_discarded_total",
		Help:      "Count of stale creation intents discarded by reconcile.",
	})
)

// Synchronizer tracks metrics for registry synchronizer operations.
type Synchronizer struct{}

// NewSynchronizer creates a Synchronizer metrics collector.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

func (m Synchronizer) observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	synchronizerOperationsTotal.WithLabelValues(operation, status).Inc()
	synchronizerOperationDuration.WithLabelValues(operation, status).
		Observe(time.Since(started).Seconds())
}

// ObserveLoadAll records a full registry load.
func (m Synchronizer) ObserveLoadAll(err error, records int, started time.Time) {
	m.observe("load_all", err, started)
	if err == nil {
		synchronizerLoadSize.Observe(float64(records))
	}
}

// ObserveCreate records a candidate creation.
func (m Synchronizer) ObserveCreate(err error, started time.Time) {
	m.observe("create", err, started)
}

// ObserveUpdateStatus records a status transition.
func (m Synchronizer) ObserveUpdateStatus(err error, started time.Time) {
	m.observe("update_status", err, started)
}

// ObserveReconcile records a repair pass over creation intents.
func (m Synchronizer) ObserveReconcile(err error, finished, discarded int, started time.Time) {
	m.observe("reconcile", err, started)
	synchronizerReconcileFinishedTotal.Add(float64(finished))
	synchronizerReconcileDiscardedTotal.Add(float64(discarded))
}
