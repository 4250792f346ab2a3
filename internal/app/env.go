package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/flightsearch/internal/config"
	"github.com/five82/flightsearch/internal/flightdb"
	"github.com/five82/flightsearch/internal/logging"
)

// Options configure the flightsearch application.
type Options struct {
	ConfigPath   string
	DatabasePath string    // overrides database_path from the config file
	PrefsPath    string    // empty uses ~/.config/flightsearch/prefs.toml
	LogOutput    io.Writer // when set, log to this writer instead of the log file
	SkipSeed     bool      // never seed, regardless of seed_on_empty
}

// Env is an opened, migrated database together with the configuration and
// logger it was opened with.
type Env struct {
	Config config.Config
	Store  *flightdb.Store
	Logger zerolog.Logger

	logCloser io.Closer
}

// Open loads configuration, opens the log and database, applies migrations,
// and seeds the airport table when it is empty and seeding is enabled.
func Open(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p := strings.TrimSpace(opts.DatabasePath); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("database path: %w", err)
		}
		cfg.DatabasePath = expanded
	}

	env := &Env{Config: cfg}
	if opts.LogOutput != nil {
		env.Logger = logging.Console(opts.LogOutput, cfg.LogLevel)
	} else {
		logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		env.Logger, env.logCloser = logger, closer
	}

	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			env.Close()
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	store, err := flightdb.Open(cfg.DatabasePath)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Store = store

	if err := store.Migrate(); err != nil {
		env.Close()
		return nil, err
	}

	if cfg.SeedOnEmpty && !opts.SkipSeed {
		n, err := store.SeedIfEmpty(ctx)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("seed airports: %w", err)
		}
		if n > 0 {
			env.Logger.Info().Int("airports", n).Msg("seeded airport table")
		}
	}

	env.Logger.Debug().Str("database", cfg.DatabasePath).Msg("database ready")
	return env, nil
}

// Close releases the database and log file.
func (e *Env) Close() error {
	var errs []error
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if e.logCloser != nil {
		if err := e.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
	}
	return errors.Join(errs...)
}
