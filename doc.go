// Package main provides the entry point for the LocalCast server.
//
// LocalCast serves video files from a local media root to devices on the
// same network and publishes M3U playlists that players such as VLC can
// open directly.
//
// # Application Lifecycle
//
//  1. Memory Configuration: sets GOMEMLIMIT from the container limit
//  2. Configuration Loading: viper reads LOCALCAST_* variables and an
//     optional localcast.yaml, then the media root and common/ are created
//  3. Component Initialization:
//     - Path sandbox confining every lookup to the media root
//     - Catalog listing playable files per scope
//     - Library watcher (optional) reporting collection changes
//     - Metrics collector refreshing library gauges every minute
//  4. HTTP Server Setup: routes, middleware chain and the metrics server
//  5. Graceful Shutdown: SIGINT/SIGTERM drain both servers within 30s
//
// # HTTP Servers
//
//  1. Main Server (default port 8000):
//     - /media/common/{filename} and /media/tv/{tvID}/{filename}
//     - /playlist/common.m3u and /playlist/tv/{tvID}.m3u
//     - /api/collections, /version and the health probes
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// # Media Layout
//
//	<media_root>/common/*.mp4     shared library
//	<media_root>/tv_<id>/*.mp4    one collection per device
//
// Nothing is indexed or cached; every listing reads the directory again.
//
// # Related Packages
//
//   - [localcast/internal/sandbox]: path confinement
//   - [localcast/internal/catalog]: directory listings
//   - [localcast/internal/playlist]: M3U rendering
//   - [localcast/internal/handlers]: HTTP handlers and routes
//   - [localcast/internal/middleware]: logging, metrics, rate limiting, compression
//   - [localcast/internal/startup]: configuration and lifecycle logging
package main
