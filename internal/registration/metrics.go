package registration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Workflows   *prometheus.CounterVec
	QueryLoads  *prometheus.CounterVec
	CacheEvents *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Workflows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_workflows_total",
			Help: "Registration workflow runs by flow and outcome",
		}, []string{"flow", "outcome"}),
		QueryLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_query_loads_total",
			Help: "Ledger read calls by query and result",
		}, []string{"query", "result"}),
		CacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_query_cache_total",
			Help: "Query cache hits, misses and invalidations",
		}, []string{"event"}),
	}
}

func (m *Metrics) incWorkflow(flow, outcome string) {
	if m == nil {
		return
	}
	m.Workflows.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) incQuery(query, result string) {
	if m == nil {
		return
	}
	m.QueryLoads.WithLabelValues(query, result).Inc()
}

func (m *Metrics) incCache(event string) {
	if m == nil {
		return
	}
	m.CacheEvents.WithLabelValues(event).Inc()
}
