package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings flightsearch reads at startup.
type Config struct {
	DatabasePath string
	LogPath      string
	LogLevel     string
	Debounce     time.Duration
	SeedOnEmpty  bool
}

const (
	defaultConfigPath   = "~/.config/flightsearch/config.toml"
	defaultDataDir      = "~/.local/share/flightsearch"
	defaultDatabaseName = "flightsearch.db"
	defaultLogName      = "flightsearch.log"
	defaultLogLevel     = "info"

	// DefaultDebounce is the autocomplete quiet window.
	DefaultDebounce = 500 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DatabasePath: mustExpand(filepath.Join(defaultDataDir, defaultDatabaseName)),
		LogPath:      mustExpand(filepath.Join(defaultDataDir, defaultLogName)),
		LogLevel:     defaultLogLevel,
		Debounce:     DefaultDebounce,
		SeedOnEmpty:  true,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DatabasePath string `toml:"database_path"`
		LogPath      string `toml:"log_path"`
		LogLevel     string `toml:"log_level"`
		DebounceMS   *int   `toml:"debounce_ms"`
		SeedOnEmpty  *bool  `toml:"seed_on_empty"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if p := strings.TrimSpace(raw.DatabasePath); p != "" {
		cfg.DatabasePath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogPath); p != "" {
		cfg.LogPath = mustExpand(p)
	}
	if lvl := strings.TrimSpace(raw.LogLevel); lvl != "" {
		cfg.LogLevel = strings.ToLower(lvl)
	}
	if raw.DebounceMS != nil {
		if *raw.DebounceMS < 0 {
			return Config{}, fmt.Errorf("parse config: debounce_ms must be >= 0, got %d", *raw.DebounceMS)
		}
		cfg.Debounce = time.Duration(*raw.DebounceMS) * time.Millisecond
	}
	if raw.SeedOnEmpty != nil {
		cfg.SeedOnEmpty = *raw.SeedOnEmpty
	}

	return cfg, nil
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if trimmed == ":memory:" {
		return trimmed, nil
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
