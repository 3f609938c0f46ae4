package handlers

import (
	"errors"
	"net/http"

	"localcast/internal/catalog"
	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/metrics"
	"localcast/internal/playlist"
)

// GetCommonPlaylist serves /playlist/common.m3u.
func (h *Handlers) GetCommonPlaylist(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListCommon(r.Context())
	h.writePlaylist(w, r, media.ScopeCommon, items, err)
}

// GetCollectionPlaylist serves /playlist/tv/{tvID}.m3u.
func (h *Handlers) GetCollectionPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(r, "tvID")
	if !ok {
		writeJSONError(w, "invalid path encoding", http.StatusBadRequest)
		return
	}
	items, err := h.catalog.ListCollection(r.Context(), id)
	h.writePlaylist(w, r, media.ScopeCollection, items, err)
}

func (h *Handlers) writePlaylist(w http.ResponseWriter, r *http.Request, scope media.Scope, items []media.Item, err error) {
	if err != nil {
		var readErr *catalog.ReadError
		if errors.As(err, &readErr) {
			logging.FromContext(r.Context()).Error().Err(err).Str("scope", string(scope)).Msg("failed to list media directory")
			writeJSONError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeResolveError(w, r, err)
		return
	}

	base := h.baseURL(r)
	urls := make([]string, len(items))
	for i, item := range items {
		urls[i] = MediaURL(base, item)
	}

	metrics.PlaylistsServedTotal.WithLabelValues(string(scope)).Inc()
	metrics.PlaylistEntries.WithLabelValues(string(scope)).Observe(float64(len(urls)))

	w.Header().Set("Content-Type", playlist.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	if err := playlist.Write(w, urls); err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("playlist write aborted")
	}
}

// ListCollections returns the ids of all collections as a JSON array.
func (h *Handlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	ids, err := h.catalog.Collections(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("failed to list collections")
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	writeJSON(w, ids)
}
