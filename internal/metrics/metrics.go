// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// KeysAllocatedTotal counts successfully allocated keys.
	KeysAllocatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keys_allocated_total",
			Help: "Total number of keys allocated",
		},
	)

	// KeyCollisionsTotal counts candidates rejected by the existence check.
	KeyCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "key_collisions_total",
			Help: "Total number of candidates rejected because the key was taken",
		},
	)

	// InsertConflictsTotal counts inserts lost to the uniqueness constraint
	// after the existence check had passed.
	InsertConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "key_insert_conflicts_total",
			Help: "Total number of inserts rejected by the uniqueness constraint",
		},
	)

	// RetriesExhaustedTotal counts allocations that hit the attempt ceiling.
	RetriesExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "key_retries_exhausted_total",
			Help: "Total number of allocations that exhausted the retry ceiling",
		},
	)

	// ExistsCheckDuration measures existence-check latency.
	ExistsCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "key_exists_check_duration_seconds",
			Help:    "Existence check duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// AllocationDuration measures end-to-end allocation latency.
	AllocationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "key_allocation_duration_seconds",
			Help:    "Key allocation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// CacheHitsTotal counts existence checks answered from the cache.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "key_cache_hits_total",
			Help: "Total number of existence checks served from the cache",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAllocation records a successful key allocation.
func RecordAllocation(duration time.Duration) {
	KeysAllocatedTotal.Inc()
	AllocationDuration.Observe(duration.Seconds())
}

// RecordCollision records a candidate rejected by the existence check.
func RecordCollision() {
	KeyCollisionsTotal.Inc()
}

// RecordInsertConflict records an insert lost to the uniqueness constraint.
func RecordInsertConflict() {
	InsertConflictsTotal.Inc()
}

// RecordRetriesExhausted records an allocation that hit the attempt ceiling.
func RecordRetriesExhausted() {
	RetriesExhaustedTotal.Inc()
}

// RecordExistsCheck records an existence-check duration.
func RecordExistsCheck(duration time.Duration) {
	ExistsCheckDuration.Observe(duration.Seconds())
}

// RecordCacheHit records an existence check served from the cache.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}
