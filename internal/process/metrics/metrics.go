package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for process operations.
type Metrics struct {
	// Operations by name and outcome (ok, rejected, failed)
	Operations *prometheus.CounterVec

	// Duration of each operation including storage round trips
	OperationDuration *prometheus.HistogramVec

	// Spain request transitions by target status
	SpainTransitions *prometheus.CounterVec

	// Times the trip stage flipped from locked to unlocked
	TripUnlocked prometheus.Counter

	// Sub-objects loaded by the store they came from
	ReconcileSources *prometheus.CounterVec

	// Local cache reads and writes that failed and were ignored
	CacheFailures *prometheus.CounterVec
}

// New registers the process metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_process_operations_total",
			Help: "Total process operations by name and outcome",
		}, []string{"operation", "outcome"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visaflow_process_operation_duration_seconds",
			Help:    "Duration of process operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		SpainTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_spain_request_transitions_total",
			Help: "Total Spain request transitions by resulting status",
		}, []string{"to"}),

		TripUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "visaflow_trip_unlocked_total",
			Help: "Total times the trip stage was unlocked",
		}),

		ReconcileSources: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_reconcile_sources_total",
			Help: "Total reconciled sub-objects by part and source store",
		}, []string{"part", "source"}),

		CacheFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_local_cache_failures_total",
			Help: "Total local cache failures that were tolerated",
		}, []string{"op"}),
	}
}

// ObserveOperation records the outcome and duration of one operation.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementSpainTransition(to string) {
	if m == nil {
		return
	}
	m.SpainTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncrementTripUnlocked() {
	if m == nil {
		return
	}
	m.TripUnlocked.Inc()
}

// ObserveReconcile records which store each sub-object came from.
func (m *Metrics) ObserveReconcile(checklistSource, submissionSource string) {
	if m == nil {
		return
	}
	m.ReconcileSources.WithLabelValues("checklist", checklistSource).Inc()
	m.ReconcileSources.WithLabelValues("submission", submissionSource).Inc()
}

func (m *Metrics) IncrementCacheFailure(op string) {
	if m == nil {
		return
	}
	m.CacheFailures.WithLabelValues(op).Inc()
}
