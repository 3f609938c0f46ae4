package handlers

import (
	"errors"
	"io"
	"net/http"

	"localcast/internal/filesystem"
	"localcast/internal/logging"
)

var errNotDirectory = errors.New("not a directory")

// HealthCheck answers the liveness probe players and load balancers poll.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, "OK")
	}
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, r, http.StatusOK, "alive")
}

// ReadinessCheck returns 200 only when the media root can be listed.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	info, err := filesystem.StatWithRetry(h.mediaRoot, h.retry)
	if err == nil && info.IsDir() {
		_, err = filesystem.ReadDirWithRetry(h.mediaRoot, h.retry)
	} else if err == nil {
		err = errNotDirectory
	}

	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("readiness check failed: media root unavailable")
		writeJSONStatus(w, r, http.StatusServiceUnavailable, "not_ready")
		return
	}
	writeJSONStatus(w, r, http.StatusOK, "ready")
}
