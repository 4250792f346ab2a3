package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/five82/flightsearch/internal/flightdb"
	"github.com/five82/flightsearch/internal/flights"
	"github.com/five82/flightsearch/internal/prefs"
	"github.com/five82/flightsearch/internal/state"
	"github.com/five82/flightsearch/internal/ui"
)

// Run boots the flightsearch TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	userPrefs := prefs.Open(opts.PrefsPath)

	facade := flights.New(ctx, env.Store, env.Store.Changes(), flights.Options{Logger: env.Logger})
	defer facade.Close()

	writes := state.NewAsyncDispatcher(env.Logger)
	defer writes.Close()

	machine := state.NewMachine(nil, facade, userPrefs, writes, state.Options{
		Debounce: env.Config.Debounce,
		Logger:   env.Logger,
	})
	machine.Start(ctx)
	defer machine.Close()

	g, gctx := errgroup.WithContext(ctx)

	// Writes from other processes reach this session through the file watcher.
	watcher := flightdb.NewWatcher(env.Store, env.Logger)
	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Controller: machine,
			Changes:    machine.Store().Changes(),
			Themes:     userPrefs,
			Logger:     env.Logger,
		})
	})

	err = g.Wait()
	env.Logger.Info().Err(err).Msg("session ended")
	return err
}
