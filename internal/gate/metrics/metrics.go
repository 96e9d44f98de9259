package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for gate evaluations.
type Metrics struct {
	// Gate evaluations by effective route and reason
	Evaluations *prometheus.CounterVec

	// Evaluations that unlocked the trip stage, by route
	Unlocked *prometheus.CounterVec
}

// New registers the gate metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_gate_evaluations_total",
			Help: "Total gate evaluations by effective route and reason",
		}, []string{"route", "reason"}),

		Unlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_gate_unlocked_total",
			Help: "Total gate evaluations that unlocked the trip stage",
		}, []string{"route"}),
	}
}

// ObserveEvaluation records one gate result.
func (m *Metrics) ObserveEvaluation(route, reason string, unlocked bool) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(route, reason).Inc()
	if unlocked {
		m.Unlocked.WithLabelValues(route).Inc()
	}
}
