package handlers

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"syscall"

	"localcast/internal/filesystem"
	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/mediatypes"
	"localcast/internal/metrics"
	"localcast/internal/sandbox"
	"localcast/internal/streaming"
)

// GetCommonMedia serves /media/common/{filename}.
func (h *Handlers) GetCommonMedia(w http.ResponseWriter, r *http.Request) {
	filename, ok := pathVar(r, "filename")
	if !ok {
		writeJSONError(w, "invalid path encoding", http.StatusBadRequest)
		return
	}
	h.serveMedia(w, r, media.ScopeCommon, "", filename)
}

// GetCollectionMedia serves /media/tv/{tvID}/{filename}.
func (h *Handlers) GetCollectionMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(r, "tvID")
	if !ok {
		writeJSONError(w, "invalid path encoding", http.StatusBadRequest)
		return
	}
	filename, ok := pathVar(r, "filename")
	if !ok {
		writeJSONError(w, "invalid path encoding", http.StatusBadRequest)
		return
	}
	h.serveMedia(w, r, media.ScopeCollection, id, filename)
}

func (h *Handlers) serveMedia(w http.ResponseWriter, r *http.Request, scope media.Scope, collectionID, filename string) {
	log := logging.FromContext(r.Context())

	path, err := h.sandbox.Resolve(scope, collectionID, filename)
	if err != nil {
		writeResolveError(w, r, err)
		return
	}

	info, err := filesystem.StatWithRetry(path, h.retry)
	if err == nil && !info.Mode().IsRegular() {
		err = fs.ErrNotExist
	}
	if err != nil {
		writeServeError(w, r, scope, err)
		return
	}

	f, err := filesystem.OpenWithRetry(path, h.retry)
	if err != nil {
		writeServeError(w, r, scope, err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Debug().Err(cerr).Str("path", path).Msg("close media file")
		}
	}()

	name := filepath.Base(path)
	w.Header().Set("Content-Type", mediatypes.GetMimeType(strings.ToLower(filepath.Ext(name))))
	w.Header().Set("Content-Disposition", contentDisposition(name))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	metrics.MediaFilesServedTotal.WithLabelValues(string(scope), "ok").Inc()
	log.Debug().Str("scope", string(scope)).Str("collection", collectionID).Str("file", name).Int64("size", info.Size()).Msg("serving media file")

	iw := streaming.NewIdleWriter(w, h.streamIdle)
	http.ServeContent(iw, r, name, info.ModTime(), f)

	if r.Context().Err() != nil {
		n, d := iw.Stats()
		log.Debug().Str("file", name).Int64("bytes", n).Dur("duration", d).Msg("client went away mid-stream")
	}
}

// contentDisposition marks the response as a download named name. Non-ASCII
// names are encoded per RFC 2231.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

// writeResolveError maps sandbox errors to status codes. The response never
// echoes the rejected path or the reason.
func writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	reason := sandbox.RejectionReason(err)
	log := logging.FromContext(r.Context())

	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, media.ErrInvalidScope), errors.Is(err, media.ErrMissingCollectionID):
		status, message = http.StatusBadRequest, "bad request"
	case errors.Is(err, sandbox.ErrPathEscape):
		status, message = http.StatusForbidden, "forbidden"
	default:
		log.Error().Err(err).Msg("media path resolution failed")
		writeJSONError(w, message, status)
		return
	}

	metrics.SandboxRejectionsTotal.WithLabelValues(reason).Inc()
	log.Warn().
		Str("reason", reason).
		Str("remote_addr", r.RemoteAddr).
		Str("path", r.URL.EscapedPath()).
		Msg("media request rejected")
	writeJSONError(w, message, status)
}

func writeServeError(w http.ResponseWriter, r *http.Request, scope media.Scope, err error) {
	if isNotFound(err) {
		metrics.MediaFilesServedTotal.WithLabelValues(string(scope), "not_found").Inc()
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}
	metrics.MediaFilesServedTotal.WithLabelValues(string(scope), "error").Inc()
	logging.FromContext(r.Context()).Error().Err(err).Str("scope", string(scope)).Msg("failed to open media file")
	writeJSONError(w, "internal server error", http.StatusInternalServerError)
}

// isNotFound treats a missing path component and a file used as a directory
// alike.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
