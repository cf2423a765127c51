package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the registration pipeline.
type Metrics struct {
	Created            prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	DuplicatesBlocked  *prometheus.CounterVec
	GuardTimeouts      prometheus.Counter
	WriteErrors        *prometheus.CounterVec
	SubmitDuration     prometheus.Histogram
}

// New creates and registers the registration metrics with the default
// registry. Call once per process.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_registrations_created_total",
			Help: "Registrations successfully written to the store",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motoreg_validation_failures_total",
			Help: "Submissions rejected by the local validation gate",
		}, []string{"kind"}),
		DuplicatesBlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motoreg_duplicates_blocked_total",
			Help: "Submissions blocked by the duplicate guard",
		}, []string{"field"}),
		GuardTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_guard_timeouts_total",
			Help: "Duplicate checks that were inconclusive and proceeded fail-open",
		}),
		WriteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motoreg_write_errors_total",
			Help: "Store writes rejected, by failure category",
		}, []string{"reason"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "motoreg_submit_duration_seconds",
			Help:    "End-to-end submission pipeline duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
