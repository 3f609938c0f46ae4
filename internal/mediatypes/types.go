package mediatypes

import (
	"sort"
	"strings"
)

// DefaultExtensions is the allow-list used when none is configured.
var DefaultExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v"}

// MimeTypes maps lowercase extensions to the Content-Type served for them.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".ts":   "video/mp2t",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".m3u":  "audio/x-mpegurl",
	".m3u8": "application/vnd.apple.mpegurl",
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp4").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// NormalizeExtension lowercases ext and adds the leading dot. It returns ""
// for blank input.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions normalizes, deduplicates and sorts exts. Entries may
// also be comma separated ("mp4,.MKV").
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(exts))
	for _, raw := range exts {
		for _, part := range strings.Split(raw, ",") {
			ext := NormalizeExtension(part)
			if ext == "" || seen[ext] {
				continue
			}
			seen[ext] = true
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}
