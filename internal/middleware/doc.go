// Package middleware provides the HTTP middleware chain used by the LocalCast
// server.
//
// It includes:
//   - Request IDs propagated into the request logger
//   - Access logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Per-client rate limiting
//   - Gzip compression for playlists and JSON, never for media bodies
package middleware
