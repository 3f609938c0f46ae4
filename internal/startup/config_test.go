package startup

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := readConfig("")
	if err != nil {
		t.Fatalf("readConfig() error = %v", err)
	}

	wantRoot, _ := filepath.Abs("./tv_content")
	if cfg.MediaRoot != wantRoot {
		t.Errorf("MediaRoot = %q, want %q", cfg.MediaRoot, wantRoot)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8000", cfg.Addr())
	}
	want := []string{".avi", ".m4v", ".mkv", ".mov", ".mp4", ".webm"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, want) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, want)
	}
	if cfg.PublicBaseURL != "" {
		t.Errorf("PublicBaseURL = %q, want empty", cfg.PublicBaseURL)
	}
	if !cfg.MetricsEnabled || cfg.MetricsPort != "9090" {
		t.Errorf("metrics = %v/%q, want true/9090", cfg.MetricsEnabled, cfg.MetricsPort)
	}
	if cfg.RateLimit != 600 {
		t.Errorf("RateLimit = %d, want 600", cfg.RateLimit)
	}
	if cfg.LogFormat != "console" || !cfg.LogHealthChecks || !cfg.WatchLibrary {
		t.Errorf("unexpected logging/watch defaults: %+v", cfg)
	}
}

func TestReadConfigEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("LOCALCAST_MEDIA_ROOT", root)
	t.Setenv("LOCALCAST_HOST", "127.0.0.1")
	t.Setenv("LOCALCAST_PORT", "8123")
	t.Setenv("LOCALCAST_ALLOWED_EXTENSIONS", "MP4,mkv")
	t.Setenv("LOCALCAST_PUBLIC_BASE_URL", "http://tv.lan:8123/")
	t.Setenv("LOCALCAST_METRICS_ENABLED", "false")
	t.Setenv("LOCALCAST_RATE_LIMIT", "0")
	t.Setenv("LOCALCAST_LOG_FORMAT", "JSON")

	cfg, err := readConfig("")
	if err != nil {
		t.Fatalf("readConfig() error = %v", err)
	}

	if cfg.MediaRoot != root {
		t.Errorf("MediaRoot = %q, want %q", cfg.MediaRoot, root)
	}
	if cfg.Addr() != "127.0.0.1:8123" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if want := []string{".mkv", ".mp4"}; !reflect.DeepEqual(cfg.AllowedExtensions, want) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, want)
	}
	if cfg.PublicBaseURL != "http://tv.lan:8123" {
		t.Errorf("PublicBaseURL = %q, want trailing slash stripped", cfg.PublicBaseURL)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %d, want 0", cfg.RateLimit)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localcast.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfigFile(t *testing.T) {
	root := t.TempDir()
	path := writeConfigFile(t, strings.Join([]string{
		"media_root: " + root,
		"port: \"8200\"",
		"allowed_extensions: [\".MKV\", \"webm\"]",
		"public_base_url: https://media.example.com",
		"watch_library: false",
	}, "\n"))

	// env wins over the file
	t.Setenv("LOCALCAST_PORT", "8300")

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig() error = %v", err)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.MediaRoot != root {
		t.Errorf("MediaRoot = %q, want %q", cfg.MediaRoot, root)
	}
	if cfg.Port != "8300" {
		t.Errorf("Port = %q, want env override 8300", cfg.Port)
	}
	if want := []string{".mkv", ".webm"}; !reflect.DeepEqual(cfg.AllowedExtensions, want) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, want)
	}
	if cfg.PublicBaseURL != "https://media.example.com" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
	if cfg.WatchLibrary {
		t.Error("WatchLibrary = true, want false")
	}
}

func TestReadConfigMissingExplicitFile(t *testing.T) {
	if _, err := readConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("readConfig() error = nil, want error for missing explicit file")
	}
}

func TestReadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric port", "LOCALCAST_PORT", "http"},
		{"port out of range", "LOCALCAST_PORT", "70000"},
		{"metrics port collides", "LOCALCAST_METRICS_PORT", "8000"},
		{"ftp base url", "LOCALCAST_PUBLIC_BASE_URL", "ftp://host/"},
		{"relative base url", "LOCALCAST_PUBLIC_BASE_URL", "tv.lan:8000"},
		{"base url with query", "LOCALCAST_PUBLIC_BASE_URL", "http://h/?a=b"},
		{"negative rate limit", "LOCALCAST_RATE_LIMIT", "-1"},
		{"unknown log format", "LOCALCAST_LOG_FORMAT", "xml"},
		{"blank extensions", "LOCALCAST_ALLOWED_EXTENSIONS", " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := readConfig(""); err == nil {
				t.Errorf("readConfig() with %s=%q: error = nil, want error", tt.key, tt.val)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"http://h", "http://h", false},
		{"http://h:8000/", "http://h:8000", false},
		{"https://h/prefix//", "https://h/prefix", false},
		{"  http://h  ", "http://h", false},
		{"h:8000", "", true},
		{"//h", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeBaseURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeBaseURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigCreatesCommonDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tv_content")
	t.Setenv("LOCALCAST_MEDIA_ROOT", root)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MediaRoot != root {
		t.Errorf("MediaRoot = %q, want %q", cfg.MediaRoot, root)
	}
	if info, err := os.Stat(filepath.Join(root, "common")); err != nil || !info.IsDir() {
		t.Errorf("common directory not created: %v", err)
	}
}
