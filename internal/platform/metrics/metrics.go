package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process level Prometheus metrics. Module specific metrics live
// next to their module.
type Metrics struct {
	SessionConnects *prometheus.CounterVec
	SessionState    prometheus.Gauge
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers process level metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on reg; tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionConnects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_session_connects_total",
			Help: "Ledger session connect attempts by outcome",
		}, []string{"outcome"}),
		SessionState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chainregistry_session_connected",
			Help: "Whether the ledger session is connected (1) or not (0)",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chainregistry_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"route", "status"}),
	}
}

// ObserveConnect records a connect outcome and the resulting state.
func (m *Metrics) ObserveConnect(outcome string, connected bool) {
	if m == nil {
		return
	}
	m.SessionConnects.WithLabelValues(outcome).Inc()
	if connected {
		m.SessionState.Set(1)
	} else {
		m.SessionState.Set(0)
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
