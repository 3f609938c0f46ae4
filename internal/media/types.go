package media

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Scope partitions the media tree into the shared library and named collections.
type Scope string

const (
	// ScopeCommon is the shared library stored under <root>/common.
	ScopeCommon Scope = "common"
	// ScopeCollection is a named collection stored under <root>/tv_<id>.
	ScopeCollection Scope = "tv"
)

// CommonDirName is the directory holding the shared library.
const CommonDirName = "common"

// CollectionDirPrefix prefixes every collection directory name.
const CollectionDirPrefix = "tv_"

var (
	// ErrInvalidScope is returned for a scope other than common or tv.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrMissingCollectionID is returned when the tv scope is used without an id.
	ErrMissingCollectionID = errors.New("collection id is required for scope tv")
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeCommon || s == ScopeCollection
}

// ParseScope converts a raw scope name into a Scope.
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
	return scope, nil
}

// Item identifies one playable file. It never carries a filesystem path;
// resolution always goes through the sandbox.
type Item struct {
	Scope        Scope  `json:"scope"`
	CollectionID string `json:"collectionId,omitempty"`
	Filename     string `json:"filename"`
}

// CommonItem returns an Item in the shared library.
func CommonItem(filename string) Item {
	return Item{Scope: ScopeCommon, Filename: filename}
}

// CollectionItem returns an Item belonging to collection id.
func CollectionItem(id, filename string) Item {
	return Item{Scope: ScopeCollection, CollectionID: id, Filename: filename}
}

// Validate checks that the collection id is present exactly when the scope
// requires it.
func (i Item) Validate() error {
	switch i.Scope {
	case ScopeCommon:
		if i.CollectionID != "" {
			return fmt.Errorf("common item must not carry a collection id: %q", i.CollectionID)
		}
		return nil
	case ScopeCollection:
		if i.CollectionID == "" {
			return ErrMissingCollectionID
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, i.Scope)
	}
}

// BaseDir returns the uncanonicalized base directory for a scope under root.
// The collection id is not sanitized here; callers that accept untrusted ids
// must go through the sandbox.
func BaseDir(root string, scope Scope, collectionID string) (string, error) {
	switch scope {
	case ScopeCommon:
		return filepath.Join(root, CommonDirName), nil
	case ScopeCollection:
		if collectionID == "" {
			return "", ErrMissingCollectionID
		}
		return filepath.Join(root, CollectionDirPrefix+collectionID), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
}
