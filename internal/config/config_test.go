package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want default 10", cfg.TimeoutSeconds)
	}
	if cfg.Locale != "default" {
		t.Errorf("Locale = %q, want default", cfg.Locale)
	}
}

func TestLoadParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[daemon]
socket_path = /tmp/test.sock
timeout_seconds = 30

[display]
locale = fr

[storage]
cache_dir = /var/cache/wardrobe
download_dir = /tmp/dl
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath != "/tmp/test.sock" {
		t.Errorf("SocketPath = %q", cfg.SocketPath)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %q", cfg.Locale)
	}
	if cfg.CacheDir != "/var/cache/wardrobe" || cfg.DownloadDir != "/tmp/dl" {
		t.Errorf("storage = %q, %q", cfg.CacheDir, cfg.DownloadDir)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("[daemon\nbroken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config")
	cfg := New()
	cfg.SocketPath = "/tmp/wardrobe.sock"
	cfg.Locale = "ko"
	cfg.TimeoutSeconds = 42

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SocketPath != cfg.SocketPath || loaded.Locale != cfg.Locale || loaded.TimeoutSeconds != 42 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(*Config) {}, nil},
		{"empty locale", func(c *Config) { c.Locale = " " }, ErrMissingLocale},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }, ErrInvalidTimeout},
		{"huge timeout", func(c *Config) { c.TimeoutSeconds = 601 }, ErrInvalidTimeout},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }, ErrMissingCacheDir},
		{"relative cache dir", func(c *Config) { c.CacheDir = "some/where" }, ErrRelativeCacheDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.CacheDir = "/var/cache/wardrobe"
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
