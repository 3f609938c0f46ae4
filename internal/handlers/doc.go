// Package handlers implements the LocalCast HTTP surface on top of the
// sandbox, catalog and playlist packages.
//
// Routes registered by [Handlers.NewRouter]:
//
//	GET /health                       plain "OK"
//	GET /livez, /readyz, /version     probes and build info
//	GET /media/common/{filename}      file download
//	GET /media/tv/{tvID}/{filename}   file download
//	GET /playlist/common.m3u          M3U of the common scope
//	GET /playlist/tv/{tvID}.m3u       M3U of one collection
//	GET /api/collections              JSON array of collection ids
//
// Resolution errors map to 400 (scope or missing id) and 403 (path escape)
// with a generic body. A safe path to a missing or non-regular file is 404.
// Playlist URLs use the configured public base URL, or the origin of the
// request when none is set.
package handlers
