// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clouddrive_http_requests_total",
			Help: "Total number of HTTP requests handled by the API",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clouddrive_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	fileOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clouddrive_file_operations_total",
			Help: "File operations by outcome",
		},
		[]string{"operation", "result"},
	)
)

// ObserveRequest records one finished HTTP request. route must be the matched
// route pattern, never the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordFileOperation(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	fileOperationsTotal.WithLabelValues(operation, result).Inc()
}
