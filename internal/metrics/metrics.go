// Package metrics exposes Prometheus instrumentation for the search engine
// and HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trouve",
			Name:      "searches_total",
			Help:      "Total number of search requests by retrieval strategy",
		},
		[]string{"strategy"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trouve",
			Name:      "search_duration_seconds",
			Help:      "Search execution duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	zeroResultSearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trouve",
			Name:      "zero_result_searches_total",
			Help:      "Total number of searches that returned no items",
		},
	)

	expansionTerms = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trouve",
			Name:      "expansion_terms",
			Help:      "Number of terms produced by synonym expansion per search",
			Buckets:   []float64{1, 2, 4, 6, 8, 12, 16, 20},
		},
	)
)

func init() {
	prometheus.MustRegister(searchesTotal)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(zeroResultSearchesTotal)
	prometheus.MustRegister(expansionTerms)
}

// ObserveSearch records one completed search: its retrieval strategy, result
// count, expanded term count and wall-clock duration.
func ObserveSearch(strategy string, total int, termCount int, duration time.Duration) {
	searchesTotal.WithLabelValues(strategy).Inc()
	searchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	expansionTerms.Observe(float64(termCount))
	if total == 0 {
		zeroResultSearchesTotal.Inc()
	}
}
