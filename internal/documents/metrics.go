package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks staging and retrieval on the content store.
type Metrics struct {
	Staged     *prometheus.CounterVec
	Retrieved  *prometheus.CounterVec
	LiveViews  prometheus.Gauge
	StagedSize prometheus.Histogram
}

// NewMetrics registers content store metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers content store metrics on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Staged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_documents_staged_total",
			Help: "Documents staged by result (stored, deduplicated, rejected)",
		}, []string{"result"}),
		Retrieved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainregistry_documents_retrieved_total",
			Help: "Document lookups by result (hit, miss)",
		}, []string{"result"}),
		LiveViews: f.NewGauge(prometheus.GaugeOpts{
			Name: "chainregistry_documents_live_views",
			Help: "Transient document views not yet released",
		}),
		StagedSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chainregistry_documents_staged_bytes",
			Help:    "Size of staged documents before encoding",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

func (m *Metrics) incStaged(result string) {
	if m != nil {
		m.Staged.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) observeSize(n int) {
	if m != nil {
		m.StagedSize.Observe(float64(n))
	}
}

func (m *Metrics) incRetrieved(result string) {
	if m != nil {
		m.Retrieved.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) addViews(delta int) {
	if m != nil {
		m.LiveViews.Add(float64(delta))
	}
}
