// Package mediatypes holds the extension and MIME tables shared by the
// catalog, the HTTP handlers and the command line tools.
//
// It has no dependencies outside the standard library so any package can
// import it.
//
//	exts := mediatypes.NormalizeExtensions([]string{"MP4", ".mkv,webm"})
//	// [.mkv .mp4 .webm]
//
//	mediatypes.GetMimeType(".mkv") // "video/x-matroska"
package mediatypes
