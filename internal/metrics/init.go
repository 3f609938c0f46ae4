package metrics

// Scopes and statuses used as label values. Kept here so InitializeMetrics and
// the recording sites agree.
var (
	scopes          = []string{"common", "tv"}
	listingStatuses = []string{"success", "missing", "error"}
	serveStatuses   = []string{"ok", "not_found", "error"}
	rejectReasons   = []string{"invalid_scope", "missing_collection_id", "path_escape"}
	watcherEvents   = []string{"collection_added", "collection_removed", "file_changed"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, scope := range scopes {
		for _, status := range listingStatuses {
			CatalogListingsTotal.WithLabelValues(scope, status)
		}
		for _, status := range serveStatuses {
			MediaFilesServedTotal.WithLabelValues(scope, status)
		}
		CatalogListDuration.WithLabelValues(scope)
		CatalogItemsReturned.WithLabelValues(scope)
		PlaylistsServedTotal.WithLabelValues(scope)
		PlaylistEntries.WithLabelValues(scope)
		LibraryMediaFiles.WithLabelValues(scope)
	}

	for _, reason := range rejectReasons {
		SandboxRejectionsTotal.WithLabelValues(reason)
	}

	for _, event := range watcherEvents {
		LibraryWatcherEventsTotal.WithLabelValues(event)
	}

	// --- Filesystem metrics (per volume × operation) ---
	volumes := []string{"media", "unknown"}
	ops := []string{"stat", "open", "readdir"}

	for _, vol := range volumes {
		for _, op := range ops {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
