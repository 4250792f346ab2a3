package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/flightsearch/internal/app"
	"github.com/five82/flightsearch/internal/flightdb"
)

func newSeedCommand(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load airports into the database",
		Long: `Load airports into the database, replacing rows with the same IATA code.

Without --file the bundled dataset is loaded. A seed file is CSV with the
header iata_code,name,passengers.`,
		Example: `  flightsearch seed
  flightsearch seed --file airports.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			airports, err := loadAirports(file)
			if err != nil {
				return err
			}

			opts := flags.cliOptions(cmd)
			opts.SkipSeed = true
			env, err := app.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Store.PutAirports(cmd.Context(), airports); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d airports into %s\n", len(airports), env.Config.DatabasePath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to load instead of the bundled dataset")
	return cmd
}

func loadAirports(path string) ([]flightdb.Airport, error) {
	if path == "" {
		return flightdb.DefaultAirports()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return flightdb.ParseAirportsCSV(f)
}
