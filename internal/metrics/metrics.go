package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localcast_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// Catalog metrics
var (
	CatalogListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_catalog_listings_total",
			Help: "Total number of catalog directory listings",
		},
		[]string{"scope", "status"}, // status: success, missing, error
	)

	CatalogListDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_catalog_list_duration_seconds",
			Help:    "Catalog listing duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"scope"},
	)

	CatalogItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_catalog_items_returned",
			Help:    "Number of playable files returned by catalog listings",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"scope"},
	)
)

// Sandbox and delivery metrics
var (
	SandboxRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_sandbox_rejections_total",
			Help: "Total number of media requests rejected by path resolution",
		},
		[]string{"reason"},
	)

	MediaFilesServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_media_files_served_total",
			Help: "Total number of media file requests by outcome",
		},
		[]string{"scope", "status"}, // status: ok, not_found, error
	)

	PlaylistsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_playlists_served_total",
			Help: "Total number of M3U playlists generated",
		},
		[]string{"scope"},
	)

	PlaylistEntries = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_playlist_entries",
			Help:    "Number of entries in generated playlists",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"scope"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations by volume and operation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after exhausting retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localcast_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors seen",
		},
		[]string{"operation", "volume"},
	)
)

// Library metrics
var (
	LibraryCollections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localcast_library_collections",
			Help: "Number of per-device collection directories under the media root",
		},
	)

	LibraryMediaFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "localcast_library_media_files",
			Help: "Number of playable files by scope",
		},
		[]string{"scope"},
	)

	LibraryWatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localcast_library_watcher_events_total",
			Help: "Total number of filesystem watcher events under the media root",
		},
		[]string{"event"},
	)

	LibraryWatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localcast_library_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// Memory metrics
var (
	GoMemLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localcast_go_memlimit_bytes",
			Help: "Configured GOMEMLIMIT in bytes, 0 when unset",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "localcast_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
