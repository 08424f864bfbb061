package progress

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus counters for a distribution run on the
// conventional /metrics exposition endpoint, so a batch invocation
// reports its own throughput to whatever scrapes it.
type Metrics struct {
	RowsProcessed      prometheus.Counter
	ScenariosCompleted prometheus.Counter
	ScanSeconds        prometheus.Histogram
}

// NewMetrics registers a fresh set of collectors against reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nparty",
			Name:      "rows_processed_total",
			Help:      "Ballot CSV rows fed through the distributor, across all scenarios.",
		}),
		ScenariosCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nparty",
			Name:      "scenarios_completed_total",
			Help:      "Scenarios that finished a distribution scan without a fatal error.",
		}),
		ScanSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nparty",
			Name:      "scenario_scan_seconds",
			Help:      "Wall-clock duration of one scenario's distribution scan.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}
	reg.MustRegister(m.RowsProcessed, m.ScenariosCompleted, m.ScanSeconds)
	return m
}

// Handler returns an http.Handler serving reg's metrics in the standard
// Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
