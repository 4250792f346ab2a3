package flightdb

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultWatchDebounce = 100 * time.Millisecond

// Watcher republishes table changes when another process writes the database
// file, so a second session's favorite edits reach live subscriptions. Writes
// made through the watched Store are already published by the Store and are
// skipped.
type Watcher struct {
	store    *Store
	path     string
	logger   zerolog.Logger
	debounce time.Duration
}

// NewWatcher builds a watcher for the database behind store.
func NewWatcher(store *Store, logger zerolog.Logger) *Watcher {
	return &Watcher{
		store:    store,
		path:     store.Path(),
		logger:   logger,
		debounce: defaultWatchDebounce,
	}
}

// Run blocks until ctx is cancelled. In-memory databases have nothing to
// watch and return immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" || w.path == ":memory:" {
		return nil
	}

	if _, err := w.store.ExternalChanges(ctx); err != nil {
		return fmt.Errorf("record database baseline: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create database watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timer  *time.Timer
		settle <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.isDatabaseFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			settle = timer.C

		case <-settle:
			settle = nil
			w.publishExternal(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Str("path", w.path).Msg("database watcher error")
		}
	}
}

func (w *Watcher) publishExternal(ctx context.Context) {
	tables, err := w.store.ExternalChanges(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn().Err(err).Str("path", w.path).Msg("check external database changes")
		}
		return
	}
	if len(tables) == 0 {
		return
	}
	w.logger.Debug().Str("path", w.path).Interface("tables", tables).Msg("database changed by another process")
	w.store.Changes().Publish(tables...)
}

func (w *Watcher) isDatabaseFile(name string) bool {
	base := filepath.Base(w.path)
	switch filepath.Base(name) {
	case base, base + "-wal", base + "-journal":
		return true
	default:
		return false
	}
}
