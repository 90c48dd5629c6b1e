package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dept_pages_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_cache_misses_total",
			Help: "Number of cache misses",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// PageSaves tracks department page writes by kind
	PageSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_page_saves_total",
			Help: "Number of department page writes",
		},
		[]string{"kind", "status"},
	)

	// AssetUploads tracks uploads to object storage
	AssetUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_asset_uploads_total",
			Help: "Number of asset uploads",
		},
		[]string{"bucket", "status"},
	)

	// SectionRenders tracks which fallback tier each rendered section used
	SectionRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_pages_section_renders_total",
			Help: "Number of rendered sections by fallback tier",
		},
		[]string{"section", "tier"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dept_pages_active_connections",
			Help: "Number of active connections",
		},
	)
)
