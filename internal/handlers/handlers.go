package handlers

import (
	"time"

	"localcast/internal/catalog"
	"localcast/internal/filesystem"
	"localcast/internal/sandbox"
	"localcast/internal/startup"
	"localcast/internal/streaming"
)

// Handlers serves media files and playlists out of one media root.
type Handlers struct {
	sandbox       *sandbox.Sandbox
	catalog       *catalog.Catalog
	mediaRoot     string
	publicBaseURL string
	retry         filesystem.RetryConfig
	streamIdle    time.Duration
}

// New returns handlers backed by sb and cat. Only MediaRoot and
// PublicBaseURL are read from config.
func New(sb *sandbox.Sandbox, cat *catalog.Catalog, config *startup.Config) *Handlers {
	return &Handlers{
		sandbox:       sb,
		catalog:       cat,
		mediaRoot:     config.MediaRoot,
		publicBaseURL: config.PublicBaseURL,
		retry:         filesystem.DefaultRetryConfig(),
		streamIdle:    streaming.DefaultIdleTimeout,
	}
}
