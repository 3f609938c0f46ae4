package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"localcast/internal/media"
)

// newTree creates <root>/common and <root>/tv_7 with a couple of files and
// returns the sandbox plus the canonical root.
func newTree(t *testing.T) (*Sandbox, string) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"common", "tv_7", "tv_1", "tv_1x"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	for _, f := range []string{"common/a.mp4", "tv_7/ep1.mkv", "tv_1x/secret.mp4"} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f)))
	}
	return New(root), canonical(t, root)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink %s: %v", link, err)
	}
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%s) error: %v", path, err)
	}
	return resolved
}

func skipSymlinksOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
}

func TestResolve_ValidRequests(t *testing.T) {
	t.Parallel()
	sb, root := newTree(t)

	tests := []struct {
		name     string
		scope    media.Scope
		id       string
		filename string
		want     string
	}{
		{name: "common file", scope: media.ScopeCommon, filename: "a.mp4", want: filepath.Join(root, "common", "a.mp4")},
		{name: "collection file", scope: media.ScopeCollection, id: "7", filename: "ep1.mkv", want: filepath.Join(root, "tv_7", "ep1.mkv")},
		{name: "missing file still resolves", scope: media.ScopeCommon, filename: "later.mp4", want: filepath.Join(root, "common", "later.mp4")},
		{name: "missing collection dir", scope: media.ScopeCollection, id: "99", filename: "x.mp4", want: filepath.Join(root, "tv_99", "x.mp4")},
		{name: "empty filename is the base dir", scope: media.ScopeCommon, filename: "", want: filepath.Join(root, "common")},
		{name: "dot is the base dir", scope: media.ScopeCommon, filename: ".", want: filepath.Join(root, "common")},
		{name: "dots inside a name are fine", scope: media.ScopeCommon, filename: "a..b.mp4", want: filepath.Join(root, "common", "a..b.mp4")},
		{name: "common ignores collection id", scope: media.ScopeCommon, id: "7", filename: "a.mp4", want: filepath.Join(root, "common", "a.mp4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sb.Resolve(tt.scope, tt.id, tt.filename)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_RejectsTraversal(t *testing.T) {
	t.Parallel()
	sb, root := newTree(t)

	tests := []struct {
		name     string
		scope    media.Scope
		id       string
		filename string
	}{
		{name: "parent of collection", scope: media.ScopeCollection, id: "7", filename: "../../../etc/passwd"},
		{name: "parent of common", scope: media.ScopeCommon, filename: "../tv_7/ep1.mkv"},
		{name: "bare dotdot", scope: media.ScopeCommon, filename: ".."},
		{name: "absolute path", scope: media.ScopeCommon, filename: "/etc/passwd"},
		{name: "absolute path into sandbox", scope: media.ScopeCommon, filename: filepath.Join(root, "common", "a.mp4")},
		{name: "nested path", scope: media.ScopeCommon, filename: "sub/a.mp4"},
		{name: "backslash", scope: media.ScopeCommon, filename: `..\..\etc\passwd`},
		{name: "nul byte", scope: media.ScopeCommon, filename: "a.mp4\x00.txt"},
		{name: "sibling with shared prefix", scope: media.ScopeCollection, id: "1", filename: "../tv_1x/secret.mp4"},
		{name: "collection id traversal", scope: media.ScopeCollection, id: "../../etc", filename: "passwd"},
		{name: "collection id with slash", scope: media.ScopeCollection, id: "7/../../", filename: "x.mp4"},
		{name: "collection id dotdot", scope: media.ScopeCollection, id: "..", filename: "x.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sb.Resolve(tt.scope, tt.id, tt.filename)
			if !errors.Is(err, ErrPathEscape) {
				t.Fatalf("Resolve() error = %v, want ErrPathEscape", err)
			}
			if got != "" {
				t.Errorf("Resolve() = %q, want empty path", got)
			}
		})
	}
}

func TestResolve_ScopeErrors(t *testing.T) {
	t.Parallel()
	sb, _ := newTree(t)

	if _, err := sb.Resolve(media.Scope("movies"), "", "a.mp4"); !errors.Is(err, media.ErrInvalidScope) {
		t.Errorf("Resolve(movies) error = %v, want ErrInvalidScope", err)
	}
	if _, err := sb.Resolve(media.ScopeCollection, "", "x.mp4"); !errors.Is(err, media.ErrMissingCollectionID) {
		t.Errorf("Resolve(tv, \"\") error = %v, want ErrMissingCollectionID", err)
	}
}

func TestResolve_SymlinkEscape(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	sb, root := newTree(t)

	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "loot.mp4"))

	symlink(t, filepath.Join(outside, "loot.mp4"), filepath.Join(root, "common", "link.mp4"))
	symlink(t, filepath.Join(outside, "gone.mp4"), filepath.Join(root, "common", "dangling.mp4"))
	symlink(t, "../tv_7/later.mkv", filepath.Join(root, "common", "sideways.mp4"))

	for _, name := range []string{"link.mp4", "dangling.mp4", "sideways.mp4"} {
		if _, err := sb.Resolve(media.ScopeCommon, "", name); !errors.Is(err, ErrPathEscape) {
			t.Errorf("Resolve(%s) error = %v, want ErrPathEscape", name, err)
		}
	}
}

func TestResolve_SymlinkedBaseDir(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	root := t.TempDir()
	nas := t.TempDir()
	writeFile(t, filepath.Join(nas, "a.mp4"))
	symlink(t, nas, filepath.Join(root, "common"))
	symlink(t, nas, filepath.Join(root, "tv_ext"))
	sb := New(root)
	want := filepath.Join(canonical(t, nas), "a.mp4")

	got, err := sb.Resolve(media.ScopeCommon, "", "a.mp4")
	if err != nil {
		t.Fatalf("Resolve(common) error: %v", err)
	}
	if got != want {
		t.Errorf("Resolve(common) = %q, want %q", got, want)
	}

	got, err = sb.Resolve(media.ScopeCollection, "ext", "a.mp4")
	if err != nil {
		t.Fatalf("Resolve(tv_ext) error: %v", err)
	}
	if got != want {
		t.Errorf("Resolve(tv_ext) = %q, want %q", got, want)
	}

	// containment is still relative to the linked directory
	if _, err := sb.Resolve(media.ScopeCommon, "", "../a.mp4"); !errors.Is(err, ErrPathEscape) {
		t.Errorf("Resolve(../a.mp4) error = %v, want ErrPathEscape", err)
	}
}

func TestResolve_DanglingSymlinkInsideBase(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	sb, root := newTree(t)
	base := filepath.Join(root, "common")

	symlink(t, "gone.mp4", filepath.Join(base, "relative.mp4"))
	symlink(t, filepath.Join(base, "absent.mp4"), filepath.Join(base, "absolute.mp4"))
	symlink(t, "relative.mp4", filepath.Join(base, "chained.mp4"))

	tests := []struct {
		filename string
		want     string
	}{
		{filename: "relative.mp4", want: filepath.Join(base, "gone.mp4")},
		{filename: "absolute.mp4", want: filepath.Join(base, "absent.mp4")},
		{filename: "chained.mp4", want: filepath.Join(base, "gone.mp4")},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := sb.Resolve(media.ScopeCommon, "", tt.filename)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_SymlinkLoop(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	sb, root := newTree(t)
	base := filepath.Join(root, "common")

	symlink(t, "ping.mp4", filepath.Join(base, "pong.mp4"))
	symlink(t, "pong.mp4", filepath.Join(base, "ping.mp4"))
	symlink(t, "missing/../spin.mp4", filepath.Join(base, "spin.mp4"))

	for _, name := range []string{"ping.mp4", "spin.mp4"} {
		if _, err := sb.Resolve(media.ScopeCommon, "", name); !errors.Is(err, ErrPathEscape) {
			t.Errorf("Resolve(%s) error = %v, want ErrPathEscape", name, err)
		}
	}

	if _, err := Canonicalize(filepath.Join(base, "spin.mp4")); !errors.Is(err, errTooManyLinks) {
		t.Errorf("Canonicalize(spin.mp4) error = %v, want errTooManyLinks", err)
	}
}

func TestResolve_SymlinkInsideBase(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	sb, root := newTree(t)

	symlink(t, filepath.Join(root, "common", "a.mp4"), filepath.Join(root, "common", "alias.mp4"))

	got, err := sb.Resolve(media.ScopeCommon, "", "alias.mp4")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(root, "common", "a.mp4"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_SymlinkedRoot(t *testing.T) {
	skipSymlinksOnWindows(t)
	t.Parallel()
	_, root := newTree(t)

	link := filepath.Join(t.TempDir(), "media")
	symlink(t, root, link)

	got, err := New(link).Resolve(media.ScopeCommon, "", "a.mp4")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(root, "common", "a.mp4"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_RootDoesNotExist(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()

	sb := New(filepath.Join(parent, "not", "yet", "created"))
	got, err := sb.Resolve(media.ScopeCollection, "3", "ep.mp4")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(canonical(t, parent), "not", "yet", "created", "tv_3", "ep.mp4"); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()
	sb, _ := newTree(t)

	first, err := sb.Resolve(media.ScopeCollection, "7", "ep1.mkv")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := sb.Resolve(media.ScopeCollection, "7", "ep1.mkv")
		if err != nil {
			t.Fatalf("Resolve() #%d error: %v", i, err)
		}
		if again != first {
			t.Errorf("Resolve() #%d = %q, want %q", i, again, first)
		}
	}
}

func TestResolveItem(t *testing.T) {
	t.Parallel()
	sb, root := newTree(t)

	got, err := sb.ResolveItem(media.CollectionItem("7", "ep1.mkv"))
	if err != nil {
		t.Fatalf("ResolveItem() error: %v", err)
	}
	if want := filepath.Join(root, "tv_7", "ep1.mkv"); got != want {
		t.Errorf("ResolveItem() = %q, want %q", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	sb := New(root)

	got, err := sb.Dir(media.ScopeCollection, "7")
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join(root, "tv_7"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}

	if _, err := sb.Dir(media.ScopeCollection, "../x"); !errors.Is(err, ErrPathEscape) {
		t.Errorf("Dir(../x) error = %v, want ErrPathEscape", err)
	}
}

func TestContains(t *testing.T) {
	sep := string(filepath.Separator)
	base := sep + filepath.Join("media", "tv_1")

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{name: "equal", candidate: base, want: true},
		{name: "child", candidate: base + sep + "a.mp4", want: true},
		{name: "grandchild", candidate: base + sep + "x" + sep + "a.mp4", want: true},
		{name: "shared prefix sibling", candidate: base + "x" + sep + "a.mp4", want: false},
		{name: "parent", candidate: sep + "media", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(base, tt.candidate); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", base, tt.candidate, got, tt.want)
			}
		})
	}

	if !Contains(sep, sep+"etc") {
		t.Error("filesystem root should contain everything")
	}
}

func TestRejectionReason(t *testing.T) {
	sb := New(t.TempDir())

	tests := []struct {
		name  string
		scope media.Scope
		id    string
		file  string
		want  string
	}{
		{name: "invalid scope", scope: "bogus", file: "a", want: "invalid_scope"},
		{name: "missing id", scope: media.ScopeCollection, file: "a", want: "missing_collection_id"},
		{name: "escape", scope: media.ScopeCommon, file: "../a", want: "path_escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sb.Resolve(tt.scope, tt.id, tt.file)
			if got := RejectionReason(err); got != tt.want {
				t.Errorf("RejectionReason(%v) = %q, want %q", err, got, tt.want)
			}
		})
	}

	if got := RejectionReason(nil); got != "none" {
		t.Errorf("RejectionReason(nil) = %q, want none", got)
	}
}
