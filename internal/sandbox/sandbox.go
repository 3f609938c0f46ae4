package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"localcast/internal/media"
)

// ErrPathEscape is returned when a request would resolve outside its base
// directory, or when containment cannot be proven.
var ErrPathEscape = errors.New("path escapes media directory")

var errTooManyLinks = errors.New("too many levels of symbolic links")

// maxLinkHops bounds how many dangling symlinks Canonicalize follows by hand.
const maxLinkHops = 40

// Sandbox confines untrusted (scope, collection, filename) requests to the
// base directories under a fixed media root. It holds no mutable state and is
// safe for concurrent use.
type Sandbox struct {
	root string
}

// New returns a Sandbox rooted at root. The directory does not need to exist.
func New(root string) *Sandbox {
	return &Sandbox{root: root}
}

// Root returns the configured media root as given to New.
func (s *Sandbox) Root() string {
	return s.root
}

// Dir validates scope and collectionID and returns the base directory under
// the root without resolving symlinks in it.
func (s *Sandbox) Dir(scope media.Scope, collectionID string) (string, error) {
	if !scope.Valid() {
		return "", fmt.Errorf("%w: %q", media.ErrInvalidScope, scope)
	}
	if scope == media.ScopeCollection {
		if collectionID == "" {
			return "", media.ErrMissingCollectionID
		}
		if err := checkCollectionID(collectionID); err != nil {
			return "", err
		}
	} else {
		collectionID = ""
	}
	return media.BaseDir(s.root, scope, collectionID)
}

// BaseDir returns the canonical base directory for scope, after validating
// the collection id. The directory may not exist yet, and it may be a symlink
// to storage outside the root.
func (s *Sandbox) BaseDir(scope media.Scope, collectionID string) (string, error) {
	raw, err := s.Dir(scope, collectionID)
	if err != nil {
		return "", err
	}
	base, err := Canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("%w: base directory: %v", ErrPathEscape, err)
	}
	return base, nil
}

// Resolve returns the canonical path of filename inside the base directory of
// scope. It does not check that the file exists or is a regular file.
//
// An empty filename resolves to the base directory itself.
func (s *Sandbox) Resolve(scope media.Scope, collectionID, filename string) (string, error) {
	base, err := s.BaseDir(scope, collectionID)
	if err != nil {
		return "", err
	}
	if err := checkFilename(filename); err != nil {
		return "", err
	}

	candidate, err := Canonicalize(filepath.Join(base, filename))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if !Contains(base, candidate) {
		return "", ErrPathEscape
	}
	return candidate, nil
}

// ResolveItem resolves a catalog item.
func (s *Sandbox) ResolveItem(item media.Item) (string, error) {
	return s.Resolve(item.Scope, item.CollectionID, item.Filename)
}

// Contains reports whether candidate equals base or lies below it. Both paths
// must already be canonical.
func Contains(base, candidate string) bool {
	if candidate == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(candidate, prefix)
}

// Canonicalize returns the absolute form of path with every symlink in its
// longest existing prefix resolved. Components that do not exist yet are
// appended unchanged, so a not-yet-created tree still canonicalizes. A
// dangling symlink is replaced by its target and resolution continues from
// there.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	for hops := 0; hops <= maxLinkHops; hops++ {
		resolved, next, err := canonicalizeOnce(abs)
		if err != nil {
			return "", err
		}
		if next == "" {
			return resolved, nil
		}
		abs = next
	}
	return "", fmt.Errorf("%s: %w", path, errTooManyLinks)
}

// canonicalizeOnce resolves the longest existing prefix of abs. If that
// prefix ends in a dangling symlink, next holds the path with the link
// replaced by its target instead.
func canonicalizeOnce(abs string) (resolved, next string, err error) {
	existing := abs
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return joinMissing(resolved, missing), "", nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", "", err
		}

		if info, lerr := os.Lstat(existing); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(existing)
			if err != nil {
				return "", "", err
			}
			if !filepath.IsAbs(target) {
				// ".." in the target is relative to the real directory.
				dir, err := filepath.EvalSymlinks(filepath.Dir(existing))
				if err != nil {
					return "", "", err
				}
				target = filepath.Join(dir, target)
			}
			return "", joinMissing(target, missing), nil
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, "", nil
		}
		missing = append(missing, filepath.Base(existing))
		existing = parent
	}
}

func joinMissing(base string, missing []string) string {
	for i := len(missing) - 1; i >= 0; i-- {
		base = filepath.Join(base, missing[i])
	}
	return base
}

// Filenames are flat: nested paths are not part of the URL scheme.
func checkFilename(name string) error {
	if strings.ContainsAny(name, `/\`+"\x00") || filepath.VolumeName(name) != "" {
		return ErrPathEscape
	}
	return nil
}

func checkCollectionID(id string) error {
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`+"\x00") {
		return ErrPathEscape
	}
	return nil
}

// RejectionReason returns a short, stable label for a resolution error,
// suitable for metrics.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, media.ErrInvalidScope):
		return "invalid_scope"
	case errors.Is(err, media.ErrMissingCollectionID):
		return "missing_collection_id"
	case errors.Is(err, ErrPathEscape):
		return "path_escape"
	default:
		return "other"
	}
}
