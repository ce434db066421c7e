package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherhire",
		Subsystem: "mirror_ingestor",
		Name:      "sync_total",
		Help:      "Count of registry mirror sync passes.",
	}, []string{"status"})

	mirrorSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cipherhire",
		Subsystem: "mirror_ingestor",
		Name:      "sync_duration_seconds",
		Help:      "Duration of registry mirror sync passes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	mirrorSnapshotSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cipherhire",
		Subsystem: "mirror_ingestor",
		Name:      "snapshot_size",
		Help:      "Number of candidate rows mirrored per sync pass.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// MirrorIngester tracks metrics for the registry mirror pipeline.
type MirrorIngester struct{}

// NewMirrorIngester creates a MirrorIngester metrics collector.
func NewMirrorIngester() *MirrorIngester {
	return &MirrorIngester{}
}

// ObserveSync records a sync pass outcome, duration and row count.
func (m MirrorIngester) ObserveSync(err error, rows int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mirrorSyncTotal.WithLabelValues(status).Inc()
	mirrorSyncDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		mirrorSnapshotSize.Observe(float64(rows))
	}
}
