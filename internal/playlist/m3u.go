package playlist

import (
	"bytes"
	"io"
	"strings"
)

const (
	// Header is the first line of every playlist.
	Header = "#EXTM3U"

	// ContentType is the media type playlists are served with.
	ContentType = "audio/x-mpegurl; charset=utf-8"
)

// Build returns an M3U document listing urls in order, one per line, with a
// trailing newline. No #EXTINF lines are emitted.
func Build(urls []string) string {
	var b strings.Builder
	b.Grow(len(Header) + 1 + totalLen(urls))
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return b.String()
}

// Write writes the document produced by Build to w in a single call.
func Write(w io.Writer, urls []string) error {
	buf := bytes.NewBufferString(Build(urls))
	_, err := io.Copy(w, buf)
	return err
}

func totalLen(urls []string) int {
	n := 0
	for _, u := range urls {
		n += len(u) + 1
	}
	return n
}
