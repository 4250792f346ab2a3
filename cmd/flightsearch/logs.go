package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/flightsearch/internal/config"
	"github.com/five82/flightsearch/internal/logging"
	"github.com/five82/flightsearch/internal/logtail"
)

func newLogsCommand(flags *globalFlags) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the session log",
		Long: `Show the end of the session log. The terminal UI writes JSON log lines to
log_path from the config; this command prints them in a readable form.`,
		Example: `  flightsearch logs
  flightsearch logs -n 200 --level warn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			tail, err := logtail.Tail(cfg.LogPath, lines)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color := false
			if f, ok := out.(*os.File); ok {
				color = isatty.IsTerminal(f.Fd())
			}
			return logtail.Print(out, tail, logging.ParseLevel(level), color)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	return cmd
}
