// Package metrics provides Prometheus instrumentation for LocalCast.
//
// All collectors are registered with the default registry through promauto
// and prefixed with "localcast_". They are grouped as follows:
//
//   - HTTP: request counts, latency, in-flight requests and rate-limit
//     rejections, recorded by the middleware package.
//   - Catalog: listing outcomes, latency and result sizes per scope.
//   - Sandbox and delivery: rejected media paths by reason, served media
//     files and generated playlists.
//   - Filesystem: per-volume operation latency and NFS stale handle retries,
//     fed by the observer returned from [NewFilesystemObserver].
//   - Library: collection and file gauges maintained by [Collector], and
//     watcher event counters.
//   - AppInfo and GoMemLimit.
//
// Call [InitializeMetrics] once at startup so every label combination is
// exported from the first scrape.
//
// Useful queries:
//
//	sum(rate(localcast_sandbox_rejections_total[5m])) by (reason)
//
//	histogram_quantile(0.95, sum(rate(localcast_catalog_list_duration_seconds_bucket[5m])) by (le, scope))
package metrics
