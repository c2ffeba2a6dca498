// Package metrics provides Prometheus metrics collection for the packing service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	unmatchedPath = "unmatched"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PackingRunsTotal counts packing runs by algorithm and outcome.
	PackingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binpacking_runs_total",
			Help: "Total number of packing runs",
		},
		[]string{"algorithm", "status"},
	)

	// PackingRunDuration tracks how long a single packing run takes.
	PackingRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "binpacking_run_duration_seconds",
			Help:    "Packing run duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"algorithm"},
	)

	// BinsOpened tracks the number of bins produced by successful runs.
	BinsOpened = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "binpacking_bins_opened",
			Help:    "Number of bins opened per packing run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"algorithm"},
	)
)

// Middleware collects HTTP metrics for every request passing through next.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(rec.status)
		// ServeMux sets Pattern in place once the request is routed.
		path := r.Pattern
		if path == "" {
			path = unmatchedPath
		}

		HTTPRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(r.Method, path, statusCode).Inc()
	})
}

// RecordRun records metrics for a packing run. bins is ignored for failed runs.
func RecordRun(algorithm string, duration time.Duration, bins int, status string) {
	PackingRunDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	PackingRunsTotal.WithLabelValues(algorithm, status).Inc()
	if status == StatusOK {
		BinsOpened.WithLabelValues(algorithm).Observe(float64(bins))
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
