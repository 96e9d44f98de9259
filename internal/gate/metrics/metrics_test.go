package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEvaluation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEvaluation("spain", "spain_documents_missing", false)
	m.ObserveEvaluation("spain", "spain_documents_complete", true)
	m.ObserveEvaluation("spain", "spain_documents_complete", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("spain", "spain_documents_complete")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Unlocked.WithLabelValues("spain")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Unlocked.WithLabelValues("usa")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveEvaluation("usa", "usa_approval_missing", false) })
}
