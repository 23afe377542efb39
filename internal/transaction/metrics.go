package transaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Submitted        *prometheus.CounterVec
	Outcomes         *prometheus.CounterVec
	ConfirmationTime *prometheus.HistogramVec
}

// NewMetrics registers on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_transactions_submitted_total",
			Help: "Transactions entering the signing step by kind",
		}, []string{"kind"}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_transaction_outcomes_total",
			Help: "Terminal transaction outcomes by kind, status and error kind",
		}, []string{"kind", "status", "error"}),
		ConfirmationTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chainregistry_transaction_confirmation_seconds",
			Help:    "Time from broadcast to inclusion",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"kind"}),
	}
}

func (m *Metrics) incSubmitted(kind Kind) {
	if m == nil {
		return
	}
	m.Submitted.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observeOutcome(r Record) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(string(r.Kind), string(r.Status), string(r.Error)).Inc()
}

func (m *Metrics) observeConfirmation(kind Kind, seconds float64) {
	if m == nil {
		return
	}
	m.ConfirmationTime.WithLabelValues(string(kind)).Observe(seconds)
}
