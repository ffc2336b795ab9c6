package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and index Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "searches_total",
			Help:      "Total number of searches served, by backend",
		},
		[]string{"backend"},
	)

	SearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_fallbacks_total",
			Help:      "Total number of searches that fell back to the local index",
		},
	)

	IndexOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "index_ops_total",
			Help:      "Total number of index write operations, by op",
		},
		[]string{"op"},
	)

	RemoteWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "remote_write_failures_total",
			Help:      "Total number of failed writes to the remote index",
		},
	)

	LocalIndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "searchd",
			Name:      "local_index_documents",
			Help:      "Number of live documents in the local index",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchFallbacksTotal)
	prometheus.MustRegister(IndexOpsTotal)
	prometheus.MustRegister(RemoteWriteFailuresTotal)
	prometheus.MustRegister(LocalIndexDocuments)
	searchMetricsRegistered = true
}

// SearchCollector feeds the searching usecase metrics hooks.
type SearchCollector struct{}

func (SearchCollector) SearchServed(backend string) { SearchesTotal.WithLabelValues(backend).Inc() }
func (SearchCollector) FallbackOccurred()           { SearchFallbacksTotal.Inc() }

// IndexCollector feeds the indexing usecase metrics hooks.
type IndexCollector struct{}

func (IndexCollector) IndexOp(op string)  { IndexOpsTotal.WithLabelValues(op).Inc() }
func (IndexCollector) RemoteWriteFailed() { RemoteWriteFailuresTotal.Inc() }
func (IndexCollector) SetLocalDocs(n int) { LocalIndexDocuments.Set(float64(n)) }
