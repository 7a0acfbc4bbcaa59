// Package metrics exposes Prometheus collectors for the bin packing service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation outcomes used as the status label.
const (
	StatusSuccess    = "success"
	StatusInvalid    = "invalid"
	StatusInfeasible = "infeasible"
	StatusCached     = "cached"
	StatusError      = "error"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, route and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal counts HTTP requests by method, route and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// AllocationsTotal counts allocation requests by outcome.
	AllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocations_total",
			Help: "Total number of allocation requests by outcome",
		},
		[]string{"status"},
	)

	// AllocationDuration tracks how long the placement search takes.
	AllocationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_duration_seconds",
			Help:    "Placement search duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	// AllocationItemsPlaced tracks the number of items per successful allocation.
	AllocationItemsPlaced = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_items_placed",
			Help:    "Number of items placed per successful allocation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// AllocationVolumeUtilization tracks the packed fraction of container volume.
	AllocationVolumeUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_volume_utilization",
			Help:    "Fraction of container volume used by a successful allocation",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	// ExportsTotal counts rendered exports by format.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_exports_total",
			Help: "Total number of allocation exports by format",
		},
		[]string{"format"},
	)

	// CacheOperationsTotal counts cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks the current number of cached entries.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks the configured cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)

	// CircuitBreakerState reports 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware records duration and count for every request.
// Requests that match no route share the "unmatched" path label.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordAllocation records the outcome of one allocation request. Duration
// is only observed for searches that actually ran.
func RecordAllocation(duration time.Duration, status string) {
	AllocationsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess || status == StatusInfeasible {
		AllocationDuration.Observe(duration.Seconds())
	}
}

// RecordPlacement records the shape of a successful allocation.
func RecordPlacement(items int, utilization float64) {
	AllocationItemsPlaced.Observe(float64(items))
	AllocationVolumeUtilization.Observe(utilization)
}

// RecordExport counts one export in the given format.
func RecordExport(format string) {
	ExportsTotal.WithLabelValues(format).Inc()
}

// RecordCacheOperation counts one cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics sets the cache size and capacity gauges.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// SetCircuitBreakerState publishes the state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
