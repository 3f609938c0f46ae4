package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every application route. The router matches on the
// escaped path so an encoded slash inside a filename reaches the sandbox
// instead of being treated as a separator.
func (h *Handlers) NewRouter() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()
	get := []string{http.MethodGet, http.MethodHead}

	r.HandleFunc("/health", h.HealthCheck).Methods(get...).Name("health")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(get...).Name("livez")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(get...).Name("readyz")
	r.HandleFunc("/version", h.GetVersion).Methods(get...).Name("version")

	r.HandleFunc("/media/common/{filename}", h.GetCommonMedia).Methods(get...).Name("media-common")
	r.HandleFunc("/media/tv/{tvID}/{filename}", h.GetCollectionMedia).Methods(get...).Name("media-tv")

	r.HandleFunc("/playlist/common.m3u", h.GetCommonPlaylist).Methods(get...).Name("playlist-common")
	r.HandleFunc("/playlist/tv/{tvID}.m3u", h.GetCollectionPlaylist).Methods(get...).Name("playlist-tv")

	r.HandleFunc("/api/collections", h.ListCollections).Methods(get...).Name("collections")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// pathVar returns the unescaped route variable name.
func pathVar(r *http.Request, name string) (string, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return "", false
	}
	return unescape(raw)
}
