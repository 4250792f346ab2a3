package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/flightsearch/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "flightsearch: %v\n", err)
		return 1
	}
	return 0
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
	prefsPath  string
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath:   g.configPath,
		DatabasePath: g.dbPath,
		PrefsPath:    g.prefsPath,
	}
}

// cliOptions are the options for subcommands that print to the terminal
// instead of running the TUI: log lines go to stderr.
func (g *globalFlags) cliOptions(cmd *cobra.Command) app.Options {
	opts := g.options()
	opts.LogOutput = cmd.ErrOrStderr()
	return opts
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "flightsearch",
		Short: "Look up flight routes between airports and star your favorites",
		Long: `flightsearch is an offline route finder. Type part of an airport code or
name, pick a departure airport, and star the destinations you care about.
Starred routes are kept in a local SQLite database.

Run without a subcommand to start the terminal UI.`,
		Example: `  flightsearch
  flightsearch search seattle
  flightsearch routes SEA
  flightsearch favorites add SEA LAX`,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/flightsearch/config.toml)")
	pf.StringVar(&flags.dbPath, "db", "", "database path, overrides database_path from the config")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/flightsearch/prefs.toml)")

	root.AddCommand(
		newSeedCommand(flags),
		newSearchCommand(flags),
		newRoutesCommand(flags),
		newFavoritesCommand(flags),
		newLogsCommand(flags),
	)
	return root
}
