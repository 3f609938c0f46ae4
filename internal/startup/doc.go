// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] reads configuration with viper from, in order of precedence,
// LOCALCAST_* environment variables, an optional YAML file and built-in
// defaults. The file is localcast.yaml in the working directory or
// /etc/localcast, or the path given by LOCALCAST_CONFIG.
//
//   - media_root: directory holding common/ and tv_<id>/ (default: ./tv_content)
//   - host, port: application listener (default: 0.0.0.0, 8000)
//   - allowed_extensions: playable extensions (default: .mp4,.mkv,.avi,.mov,.webm,.m4v)
//   - public_base_url: fixed origin for playlist URLs (default: request origin)
//   - metrics_enabled, metrics_port: Prometheus listener (default: true, 9090)
//   - rate_limit: requests per minute per client IP, 0 disables (default: 600)
//   - log_level, log_format: debug|info|warn|error, console|json
//   - log_health_checks: include probe requests in the access log (default: true)
//   - watch_library: run the fsnotify library watcher (default: true)
//
// LOG_LEVEL and DEBUG are still honoured when log_level is unset. MEMORY_LIMIT,
// MEMORY_RATIO and GOMEMLIMIT are read by the memory package.
//
// The media root and its common/ directory are created when missing. Failure
// to do so is logged, not fatal.
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
//
// # Lifecycle Logging
//
// [LogMemoryConfig], [LogLibraryInit], [LogWatcherInit], [LogHTTPRoutes],
// [LogServerStarted] and the LogShutdown* helpers print the sectioned startup
// and shutdown log.
package startup
