package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"localcast/internal/media"
)

// MediaURL returns the absolute URL of item under base, which must not end
// with a slash. Each path segment is escaped.
func MediaURL(base string, item media.Item) string {
	if item.Scope == media.ScopeCollection {
		return base + "/media/" + string(media.ScopeCollection) + "/" + url.PathEscape(item.CollectionID) + "/" + url.PathEscape(item.Filename)
	}
	return base + "/media/" + media.CommonDirName + "/" + url.PathEscape(item.Filename)
}

// baseURL returns the configured public base URL, or the origin the request
// was addressed to.
func (h *Handlers) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	return RequestOrigin(r)
}

// RequestOrigin returns scheme://host for r. The scheme is https when the
// connection is TLS or a proxy set X-Forwarded-Proto: https.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(strings.TrimSpace(firstValue(r.Header.Get("X-Forwarded-Proto"))), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// firstValue returns the first entry of a comma separated header.
func firstValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		return v[:i]
	}
	return v
}
