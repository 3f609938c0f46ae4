package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"localcast/internal/filesystem"
	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/metrics"
	"localcast/internal/sandbox"
)

// ReadError reports a directory that exists but could not be read.
type ReadError struct {
	Dir string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("catalog: read %s: %v", e.Dir, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Catalog lists the playable files of each scope. It performs a fresh
// directory read on every call.
type Catalog struct {
	sandbox *sandbox.Sandbox
	allowed map[string]bool
	retry   filesystem.RetryConfig
}

// New returns a Catalog over the sandbox root accepting the given extensions.
// Extensions are matched case-insensitively and must include the dot.
func New(sb *sandbox.Sandbox, extensions []string) *Catalog {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Catalog{
		sandbox: sb,
		allowed: allowed,
		retry:   filesystem.DefaultRetryConfig(),
	}
}

// Allowed reports whether filename has an allowed extension.
func (c *Catalog) Allowed(filename string) bool {
	return c.allowed[strings.ToLower(filepath.Ext(filename))]
}

// ListCommon returns the playable files of the shared library.
func (c *Catalog) ListCommon(ctx context.Context) ([]media.Item, error) {
	return c.List(ctx, media.ScopeCommon, "")
}

// ListCollection returns the playable files of collection id.
func (c *Catalog) ListCollection(ctx context.Context, id string) ([]media.Item, error) {
	return c.List(ctx, media.ScopeCollection, id)
}

// List returns the playable files of a scope, sorted by lowercase filename.
// A missing directory yields an empty list.
func (c *Catalog) List(ctx context.Context, scope media.Scope, collectionID string) ([]media.Item, error) {
	start := time.Now()
	items, err := c.list(ctx, scope, collectionID)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case items == nil:
		status = "missing"
	}
	label := string(scope)
	if !scope.Valid() {
		label = "invalid"
	}
	metrics.CatalogListingsTotal.WithLabelValues(label, status).Inc()
	metrics.CatalogListDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.CatalogItemsReturned.WithLabelValues(label).Observe(float64(len(items)))
	}

	if items == nil && err == nil {
		items = []media.Item{}
	}
	return items, err
}

func (c *Catalog) list(ctx context.Context, scope media.Scope, collectionID string) ([]media.Item, error) {
	raw, err := c.sandbox.Dir(scope, collectionID)
	if err != nil {
		return nil, err
	}
	// I/O failures here are read errors, not escapes.
	dir, err := sandbox.Canonicalize(raw)
	if err != nil {
		return nil, &ReadError{Dir: raw, Err: err}
	}
	if scope == media.ScopeCommon {
		collectionID = ""
	}

	entries, err := filesystem.ReadDirWithRetry(dir, c.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Debug().Str("dir", dir).Msg("catalog directory does not exist")
			return nil, nil
		}
		return nil, &ReadError{Dir: dir, Err: err}
	}

	items := make([]media.Item, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if !c.Allowed(name) {
			continue
		}
		if !c.eligible(ctx, dir, scope, collectionID, entry) {
			continue
		}
		items = append(items, media.Item{Scope: scope, CollectionID: collectionID, Filename: name})
	}

	SortItems(items)
	return items, nil
}

// eligible reports whether entry is a regular file, following symlinks that
// stay inside the sandbox.
func (c *Catalog) eligible(ctx context.Context, dir string, scope media.Scope, collectionID string, entry os.DirEntry) bool {
	mode := entry.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		// directories, devices, sockets, pipes
		return false
	}

	if _, err := c.sandbox.Resolve(scope, collectionID, entry.Name()); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("entry", entry.Name()).Msg("skipping symlink outside sandbox")
		return false
	}
	info, err := filesystem.StatWithRetry(filepath.Join(dir, entry.Name()), c.retry)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Collections returns the ids of all tv_<id> directories under the root,
// sorted like filenames. A missing root yields an empty list.
func (c *Catalog) Collections(ctx context.Context) ([]string, error) {
	root, err := sandbox.Canonicalize(c.sandbox.Root())
	if err != nil {
		return nil, &ReadError{Dir: c.sandbox.Root(), Err: err}
	}

	entries, err := filesystem.ReadDirWithRetry(root, c.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &ReadError{Dir: root, Err: err}
	}

	ids := make([]string, 0)
	for _, entry := range entries {
		name := entry.Name()
		id, ok := strings.CutPrefix(name, media.CollectionDirPrefix)
		if !ok || id == "" {
			continue
		}
		// BaseDir follows symlinked collection dirs.
		base, err := c.sandbox.BaseDir(media.ScopeCollection, id)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("entry", name).Msg("skipping collection")
			continue
		}
		info, err := filesystem.StatWithRetry(base, c.retry)
		if err != nil || !info.IsDir() {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return lessFold(ids[i], ids[j]) })
	return ids, nil
}

// SortItems orders items by byte-wise lowercase filename, falling back to the
// raw name so the order is total.
func SortItems(items []media.Item) {
	sort.Slice(items, func(i, j int) bool {
		return lessFold(items[i].Filename, items[j].Filename)
	})
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
