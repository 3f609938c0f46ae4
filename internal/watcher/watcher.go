package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/metrics"
)

// Event kinds reported by the watcher. They double as metric label values.
const (
	CollectionAdded   = "collection_added"
	CollectionRemoved = "collection_removed"
	FileChanged       = "file_changed"
)

// Event describes a change under the media root.
type Event struct {
	Kind         string
	Scope        media.Scope
	CollectionID string
	// Name is the base name of the entry that changed.
	Name string
}

// Watcher reports collections appearing or disappearing under the media root
// and file changes inside the scope directories. It keeps no state beyond the
// set of watched directories; listings are always recomputed from disk.
type Watcher struct {
	root    string
	fsw     *fsnotify.Watcher
	onEvent func(Event)
	// known collection directory names; only touched by New and Run
	collections map[string]bool
}

// New creates a watcher on root, the common directory and every collection
// directory present now. onEvent may be nil.
func New(root string, onEvent func(Event)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.LibraryWatcherErrors.Inc()
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		root:        filepath.Clean(root),
		fsw:         fsw,
		onEvent:     onEvent,
		collections: make(map[string]bool),
	}
	if err := fsw.Add(w.root); err != nil {
		_ = fsw.Close()
		metrics.LibraryWatcherErrors.Inc()
		return nil, fmt.Errorf("watch media root %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		_ = fsw.Close()
		metrics.LibraryWatcherErrors.Inc()
		return nil, fmt.Errorf("read media root %s: %w", w.root, err)
	}
	for _, e := range entries {
		if e.IsDir() && w.scopeDir(e.Name()) {
			w.add(filepath.Join(w.root, e.Name()))
			if e.Name() != media.CommonDirName {
				w.collections[e.Name()] = true
			}
		}
	}

	return w, nil
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	logging.Debug("Library watcher started, watching %d directories", len(w.fsw.WatchList()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
			metrics.LibraryWatcherErrors.Inc()
		}
	}
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	dir := filepath.Dir(event.Name)
	if dir == w.root {
		w.handleRootEvent(event, name)
		return
	}

	parent := filepath.Base(dir)
	if filepath.Dir(dir) != w.root || !w.scopeDir(parent) {
		return
	}

	ev := Event{Kind: FileChanged, Scope: media.ScopeCommon, Name: name}
	if parent != media.CommonDirName {
		ev.Scope = media.ScopeCollection
		ev.CollectionID = strings.TrimPrefix(parent, media.CollectionDirPrefix)
	}
	logging.Debug("Library change: %s %s", event.Op, event.Name)
	w.emit(ev)
}

func (w *Watcher) handleRootEvent(event fsnotify.Event, name string) {
	if !strings.HasPrefix(name, media.CollectionDirPrefix) {
		if name == media.CommonDirName && event.Has(fsnotify.Create) {
			w.add(event.Name)
		}
		return
	}
	id := strings.TrimPrefix(name, media.CollectionDirPrefix)
	if id == "" {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() || w.collections[name] {
			return
		}
		w.collections[name] = true
		w.add(event.Name)
		logging.Info("Collection added: %s", id)
		w.emit(Event{Kind: CollectionAdded, Scope: media.ScopeCollection, CollectionID: id, Name: name})
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if !w.collections[name] {
			return
		}
		delete(w.collections, name)
		_ = w.fsw.Remove(event.Name)
		logging.Info("Collection removed: %s", id)
		w.emit(Event{Kind: CollectionRemoved, Scope: media.ScopeCollection, CollectionID: id, Name: name})
	}
}

func (w *Watcher) scopeDir(name string) bool {
	if name == media.CommonDirName {
		return true
	}
	return strings.HasPrefix(name, media.CollectionDirPrefix) && len(name) > len(media.CollectionDirPrefix)
}

func (w *Watcher) add(path string) {
	if err := w.fsw.Add(path); err != nil {
		logging.Warn("failed to add path to watcher %s: %v", path, err)
		metrics.LibraryWatcherErrors.Inc()
	}
}

func (w *Watcher) emit(ev Event) {
	metrics.LibraryWatcherEventsTotal.WithLabelValues(ev.Kind).Inc()
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}
