package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	remoteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todos",
			Subsystem: "remote",
			Name:      "requests_total",
			Help:      "Remote collection requests.",
		},
		[]string{"op", "method", "status", "success"},
	)
	remoteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "todos",
			Subsystem: "remote",
			Name:      "request_duration_seconds",
			Help:      "Remote collection request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "method"},
	)
	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todos",
			Subsystem: "coordinator",
			Name:      "mutations_total",
			Help:      "Settled mutations by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	mutationsInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "todos",
			Subsystem: "coordinator",
			Name:      "mutations_inflight",
			Help:      "Mutations optimistically applied and awaiting settlement.",
		},
		[]string{"kind"},
	)
	fetchesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "todos",
			Subsystem: "coordinator",
			Name:      "fetches_discarded_total",
			Help:      "Fetch results ignored because a mutation superseded them.",
		},
	)
)

// RegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(remoteRequests, remoteDuration, mutations, mutationsInflight, fetchesDiscarded)
	})
}

// RecordRemoteRequest records one remote call. Status is 0 when no response arrived.
func RecordRemoteRequest(op, method string, status int, duration time.Duration, success bool) {
	RegisterMetrics()
	remoteRequests.WithLabelValues(op, method, strconv.Itoa(status), strconv.FormatBool(success)).Inc()
	remoteDuration.WithLabelValues(op, method).Observe(duration.Seconds())
}

// MutationStarted marks a mutation as in flight.
func MutationStarted(kind string) {
	RegisterMetrics()
	mutationsInflight.WithLabelValues(kind).Inc()
}

// MutationSettled records a settled mutation. Outcome is "success" or "rollback".
func MutationSettled(kind, outcome string) {
	RegisterMetrics()
	mutationsInflight.WithLabelValues(kind).Dec()
	mutations.WithLabelValues(kind, outcome).Inc()
}

// FetchDiscarded records a fetch whose result was superseded.
func FetchDiscarded() {
	RegisterMetrics()
	fetchesDiscarded.Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// MutationCounter exposes the settled-mutation counter for one label pair.
func MutationCounter(kind, outcome string) prometheus.Counter {
	return mutations.WithLabelValues(kind, outcome)
}
