// Package playlist renders ordered URL lists as extended M3U documents.
//
// The output is the bare form players accept: the #EXTM3U marker followed by
// one absolute URL per line. URL construction belongs to the caller.
package playlist
