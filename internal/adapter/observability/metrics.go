// Package observability provides logging, metrics, and tracing.
package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route, method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// AnalyzerRequestsTotal counts qualitative analyzer / embedding calls.
	AnalyzerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Total number of collaborator requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	// AnalyzerRequestDuration observes collaborator call latency.
	AnalyzerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyzer_request_duration_seconds",
			Help:    "Collaborator request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// BatchSizeHistogram tracks how many resumes arrive per scoring batch.
	BatchSizeHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_batch_size",
			Help:    "Number of resumes per batch",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)
	// CompositeScoreHistogram tracks the distribution of composite scores.
	// The composite is unbounded; the top bucket is open-ended.
	CompositeScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_composite_score",
			Help:    "Distribution of composite scores",
			Buckets: []float64{0, 10, 25, 50, 60, 75, 90, 120},
		},
	)
)

// InitMetrics registers all metrics with the default registry. Call once per
// process.
func InitMetrics() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AnalyzerRequestsTotal,
		AnalyzerRequestDuration,
		BatchSizeHistogram,
		CompositeScoreHistogram,
	)
}

// ObserveBatch records the size and per-resume composite scores of one batch.
func ObserveBatch(size int, composites []float64) {
	BatchSizeHistogram.Observe(float64(size))
	for _, c := range composites {
		CompositeScoreHistogram.Observe(c)
	}
}

// HTTPMetricsMiddleware records request counts and duration per chi route.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
