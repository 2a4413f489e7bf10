package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vcc"

var (
	// Mutations counts project-store and directory mutations by operation and outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Number of state mutations by operation and result.",
	}, []string{"op", "result"})

	// ChangeEvents counts change-bus publications by collection type.
	ChangeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_total",
		Help:      "Number of change events published by type.",
	}, []string{"type"})

	// StorageFailures counts swallowed or surfaced key-value store failures.
	StorageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_failures_total",
		Help:      "Number of key-value store failures by operation.",
	}, []string{"op"})

	// RequestDuration observes HTTP handling time by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time spent handling HTTP requests.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "route", "status"})
)

// ObserveMutation records the outcome of a mutating operation.
func ObserveMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Mutations.WithLabelValues(op, result).Inc()
}
