// Package metrics defines and registers the custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto); the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionValidationsTotal counts session token validations.
// Label:
//   - result: "valid", "invalid", or "expired"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session token validations, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogResolutionsTotal counts catalog resolutions by the tier that answered.
// Labels:
//   - tier: "cache", "snapshot", "source"
//   - lang: requested language
var CatalogResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total number of catalog resolutions, by answering tier and language.",
	},
	[]string{"tier", "lang"},
)

// CatalogTierFailuresTotal counts tier lookups that did not produce data.
// Labels:
//   - tier: the tier consulted
//   - reason: "miss" or "error"
var CatalogTierFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_failures_total",
		Help:      "Total number of tier lookups that fell through, by tier and reason.",
	},
	[]string{"tier", "reason"},
)

// CatalogUnavailableTotal counts resolutions where every tier failed.
var CatalogUnavailableTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unavailable_total",
		Help:      "Total number of resolutions where every tier failed.",
	},
)

// CacheWarmQueueDepth tracks pending cache writes per warmer worker.
// Label:
//   - worker_id: numeric worker index
var CacheWarmQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_warm_queue_depth",
		Help:      "Current number of cache writes pending in each warmer worker.",
	},
	[]string{"worker_id"},
)

// CacheWarmTotal counts background cache writes.
// Label:
//   - result: "ok", "error", or "dropped"
var CacheWarmTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_warm_total",
		Help:      "Total number of background cache population attempts, by result.",
	},
	[]string{"result"},
)

// ── Gallery metrics ───────────────────────────────────────────────────────────

// GalleryIndexAttempts measures how many read-modify-write cycles an index
// update needed.
// Label:
//   - op: "add", "remove", "repair"
var GalleryIndexAttempts = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gallery_index_attempts",
		Help:      "Number of conditional-update attempts per gallery index update.",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 10},
	},
	[]string{"op"},
)

// GalleryIndexConflictsTotal counts index updates that exhausted their retry budget.
// Label:
//   - op: "add", "remove", "repair"
var GalleryIndexConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gallery_index_conflicts_total",
		Help:      "Total number of gallery index updates that gave up after retries.",
	},
	[]string{"op"},
)
