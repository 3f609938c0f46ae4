package metrics

import (
	"context"
	"time"

	"localcast/internal/logging"
	"localcast/internal/media"
)

// Library is the subset of the catalog the collector reads.
type Library interface {
	Collections(ctx context.Context) ([]string, error)
	ListCommon(ctx context.Context) ([]media.Item, error)
	ListCollection(ctx context.Context, id string) ([]media.Item, error)
}

// Stats holds the current library statistics
type Stats struct {
	Collections     int
	CommonFiles     int
	CollectionFiles int
}

// Collector periodically collects library statistics and updates the gauges.
type Collector struct {
	library  Library
	interval time.Duration
}

// NewCollector creates a new metrics collector
func NewCollector(library Library, interval time.Duration) *Collector {
	return &Collector{
		library:  library,
		interval: interval,
	}
}

// Run collects immediately and then on every interval until ctx is done.
func (c *Collector) Run(ctx context.Context) error {
	c.collect(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Gather walks the library once. Unreadable collections are skipped.
func (c *Collector) Gather(ctx context.Context) (Stats, error) {
	var stats Stats

	common, err := c.library.ListCommon(ctx)
	if err != nil {
		return stats, err
	}
	stats.CommonFiles = len(common)

	ids, err := c.library.Collections(ctx)
	if err != nil {
		return stats, err
	}
	stats.Collections = len(ids)

	for _, id := range ids {
		items, err := c.library.ListCollection(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			logging.Debug("Metrics collector skipping collection %q: %v", id, err)
			continue
		}
		stats.CollectionFiles += len(items)
	}
	return stats, nil
}

func (c *Collector) collect(ctx context.Context) {
	if c.library == nil {
		return
	}

	stats, err := c.Gather(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn("Metrics collection failed: %v", err)
		}
		return
	}

	LibraryCollections.Set(float64(stats.Collections))
	LibraryMediaFiles.WithLabelValues(string(media.ScopeCommon)).Set(float64(stats.CommonFiles))
	LibraryMediaFiles.WithLabelValues(string(media.ScopeCollection)).Set(float64(stats.CollectionFiles))

	logging.Debug("Metrics collected: collections=%d, common=%d, collection files=%d",
		stats.Collections, stats.CommonFiles, stats.CollectionFiles)
}
