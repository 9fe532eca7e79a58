package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing and query Prometheus metrics.
var (
	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrmapper",
			Name:      "documents_indexed_total",
			Help:      "Total number of documents submitted to the engine",
		},
		[]string{"kind"},
	)

	DocumentsEvictedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrmapper",
			Name:      "documents_evicted_total",
			Help:      "Total number of malformed documents evicted before commit",
		},
		[]string{"kind"},
	)

	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrmapper",
			Name:      "batches_total",
			Help:      "Total number of batch commits by outcome",
		},
		[]string{"outcome"}, // "committed" / "retried" / "dropped"
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solrmapper",
			Name:      "query_duration_seconds",
			Help:      "End-to-end search query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var registered bool

// Register registers all collectors. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(DocumentsIndexedTotal)
	prometheus.MustRegister(DocumentsEvictedTotal)
	prometheus.MustRegister(BatchesTotal)
	prometheus.MustRegister(QueryDuration)
	registered = true
}
