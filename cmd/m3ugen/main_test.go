package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localcast/internal/media"
	"localcast/internal/sandbox"
)

func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"common/b.mp4":               "b",
		"common/a.mkv":               "a",
		"common/notes.txt":           "n",
		"tv_7/Pilot Episode.mp4":     "p",
		"tv_7/ep2.webm":              "e",
		"tv_12/finale.mov":           "f",
		"tv_12/thumbs/finale.jpg":    "j",
		"tv_12/subtitles/finale.srt": "s",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"m3ugen"}, args...))
	return out.String(), err
}

func wantOutput(t *testing.T, args []string, want string) {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("run(%q) error: %v", args, err)
	}
	if out != want {
		t.Errorf("run(%q) output =\n%s\nwant\n%s", args, out, want)
	}
}

func TestGenerate_Common(t *testing.T) {
	root := newRoot(t)

	wantOutput(t, []string{"--root", root, "--base-url", "http://192.168.1.20:8000/"},
		"#EXTM3U\n"+
			"http://192.168.1.20:8000/media/common/a.mkv\n"+
			"http://192.168.1.20:8000/media/common/b.mp4\n")
}

func TestGenerate_Collection(t *testing.T) {
	root := newRoot(t)

	wantOutput(t, []string{"--root", root, "--base-url", "http://host:8000", "--collection", "7"},
		"#EXTM3U\n"+
			"http://host:8000/media/tv/7/ep2.webm\n"+
			"http://host:8000/media/tv/7/Pilot%20Episode.mp4\n")
}

func TestGenerate_ExtensionFilter(t *testing.T) {
	root := newRoot(t)

	wantOutput(t, []string{"--root", root, "--base-url", "http://host:8000", "--ext", "MKV", "--ext", ".txt"},
		"#EXTM3U\n"+
			"http://host:8000/media/common/a.mkv\n"+
			"http://host:8000/media/common/notes.txt\n")
}

func TestGenerate_MissingCollectionIsEmpty(t *testing.T) {
	root := newRoot(t)

	wantOutput(t, []string{"--root", root, "--base-url", "http://host:8000", "--collection", "99"}, "#EXTM3U\n")
}

func TestGenerate_Errors(t *testing.T) {
	root := newRoot(t)

	tests := []struct {
		name   string
		args   []string
		target error
		// usage errors print help to stdout
		usage bool
	}{
		{"traversal id", []string{"--root", root, "--base-url", "http://host", "--collection", "../etc"}, sandbox.ErrPathEscape, false},
		{"empty id", []string{"--root", root, "--base-url", "http://host", "--collection", ""}, media.ErrMissingCollectionID, false},
		{"relative base", []string{"--root", root, "--base-url", "host:8000"}, nil, false},
		{"missing root flag", []string{"--base-url", "http://host"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOCALCAST_MEDIA_ROOT", "")
			if err := os.Unsetenv("LOCALCAST_MEDIA_ROOT"); err != nil {
				t.Fatalf("Failed to unset env: %v", err)
			}
			out, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("run() should fail")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("run() error = %v, want %v", err, tt.target)
			}
			if !tt.usage && out != "" {
				t.Errorf("run() output = %q, want none", out)
			}
			if tt.usage && strings.Contains(out, "#EXTM3U") {
				t.Errorf("run() wrote a playlist on a usage error: %q", out)
			}
		})
	}
}
