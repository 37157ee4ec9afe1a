// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_client_requests_total",
			Help: "Requests sent to the jessica API by the client wrappers",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "backend_client_request_duration_seconds",
			Help: "Duration of client requests to the jessica API in seconds",
		},
		[]string{"endpoint"},
	)

	ActivityLogsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_logs_dropped_total",
			Help: "Activity log entries that could not be delivered",
		},
		[]string{"reason"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests handled by the API server",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of API requests in seconds",
		},
		[]string{"method", "route"},
	)

	VendorCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_cache_lookups_total",
			Help: "Preferred vendor cache lookups by result",
		},
		[]string{"result"},
	)

	CallsPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_calls_total",
			Help: "Outbound calls requested from Vapi",
		},
		[]string{"mode", "result"},
	)
)
