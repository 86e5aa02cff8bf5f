// Package config provides configuration management for wardrobe.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds everything the CLI needs to reach the daemon and render
// output.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\wardrobe\config
//   - Unix: ~/.config/wardrobe/config
//
// INI format:
//
//	[daemon]
//	socket_path = /run/user/1000/wardrobe/daemon.sock
//	timeout_seconds = 10
//
//	[display]
//	locale = en
//
//	[storage]
//	cache_dir = ~/.local/share/wardrobe
//	download_dir = ~/Downloads
type Config struct {
	// Daemon connection settings
	SocketPath     string `ini:"socket_path"`
	TimeoutSeconds int    `ini:"timeout_seconds"`

	// Locale used when resolving layer overrides for display.
	Locale string `ini:"locale"`

	// CacheDir holds the warm-start snapshot database.
	CacheDir string `ini:"cache_dir"`

	// DownloadDir receives packages fetched from URLs before install.
	DownloadDir string `ini:"download_dir"`
}

// Validation errors
var (
	ErrMissingLocale    = errors.New("locale is required")
	ErrInvalidTimeout   = errors.New("timeout_seconds must be between 0 and 600")
	ErrMissingCacheDir  = errors.New("cache_dir is required")
	ErrRelativeCacheDir = errors.New("cache_dir must be an absolute path")
)

// DefaultPath returns the default location of the config file.
// - Windows: %USERPROFILE%\.config\wardrobe\config
// - Unix: ~/.config/wardrobe/config
func DefaultPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", "wardrobe")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "wardrobe")
	}

	return filepath.Join(configDir, "config"), nil
}

// New creates a Config with default values. The cache directory falls
// back to the working directory only when no home directory exists.
func New() *Config {
	cacheDir := ".wardrobe"
	downloadDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".local", "share", "wardrobe")
		downloadDir = filepath.Join(home, "Downloads")
	}
	return &Config{
		TimeoutSeconds: 10,
		Locale:         "default",
		CacheDir:       cacheDir,
		DownloadDir:    downloadDir,
	}
}

// Load reads configuration from an INI file. A missing file returns
// defaults and no error; a file that exists but cannot be parsed is an
// error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	daemonSection := iniFile.Section("daemon")
	cfg.SocketPath = daemonSection.Key("socket_path").MustString(cfg.SocketPath)
	cfg.TimeoutSeconds = daemonSection.Key("timeout_seconds").MustInt(cfg.TimeoutSeconds)

	displaySection := iniFile.Section("display")
	cfg.Locale = displaySection.Key("locale").MustString(cfg.Locale)

	storageSection := iniFile.Section("storage")
	cfg.CacheDir = storageSection.Key("cache_dir").MustString(cfg.CacheDir)
	cfg.DownloadDir = storageSection.Key("download_dir").MustString(cfg.DownloadDir)

	return cfg, nil
}

// Save writes the configuration to an INI file, creating parent
// directories as needed. Writes go through a temp file plus rename so a
// crash never leaves a half-written config.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	daemonSection, err := iniFile.NewSection("daemon")
	if err != nil {
		return fmt.Errorf("failed to create daemon section: %w", err)
	}
	daemonSection.Key("socket_path").SetValue(cfg.SocketPath)
	daemonSection.Key("timeout_seconds").SetValue(fmt.Sprintf("%d", cfg.TimeoutSeconds))

	displaySection, err := iniFile.NewSection("display")
	if err != nil {
		return fmt.Errorf("failed to create display section: %w", err)
	}
	displaySection.Key("locale").SetValue(cfg.Locale)

	storageSection, err := iniFile.NewSection("storage")
	if err != nil {
		return fmt.Errorf("failed to create storage section: %w", err)
	}
	storageSection.Key("cache_dir").SetValue(cfg.CacheDir)
	storageSection.Key("download_dir").SetValue(cfg.DownloadDir)

	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the configuration. Returns nil if valid, or an error
// describing what's wrong.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Locale) == "" {
		return ErrMissingLocale
	}
	if cfg.TimeoutSeconds < 0 || cfg.TimeoutSeconds > 600 {
		return ErrInvalidTimeout
	}
	if strings.TrimSpace(cfg.CacheDir) == "" {
		return ErrMissingCacheDir
	}
	if !filepath.IsAbs(cfg.CacheDir) && cfg.CacheDir != ".wardrobe" {
		return ErrRelativeCacheDir
	}
	return nil
}

// Timeout returns the per-roundtrip deadline as a duration. Zero means
// no deadline.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}
