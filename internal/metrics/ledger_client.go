package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherhire",
		Subsystem: "ledger_client",
		Name:      "requests_total",
		Help:      "Count of ledger gateway requests.",
	}, []string{"operation", "status"})
	ledgerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cipherhire",
		Subsystem: "ledger_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of ledger gateway requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// LedgerClient tracks metrics for ledger gateway calls.
type LedgerClient struct{}

// NewLedgerClient creates a LedgerClient metrics collector.
func NewLedgerClient() *LedgerClient {
	return &LedgerClient{}
}

// Observe records duration and status of a ledger call.
func (m LedgerClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ledgerRequestsTotal.WithLabelValues(operation, status).Inc()
	ledgerRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
