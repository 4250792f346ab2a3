package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/flightsearch/internal/app"
	"github.com/five82/flightsearch/internal/flightdb"
)

func newSearchCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "List airports whose code or name contains text",
		Long: `List airports whose IATA code or name contains text, busiest first.
Matching is case-insensitive.`,
		Example: `  flightsearch search sea
  flightsearch search "san f"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("search text is blank")
			}

			env, err := app.Open(cmd.Context(), flags.cliOptions(cmd))
			if err != nil {
				return err
			}
			defer env.Close()

			airports, err := env.Store.SearchAutocomplete(cmd.Context(), query)
			if err != nil {
				return err
			}
			renderAirports(cmd.OutOrStdout(), airports)
			return nil
		},
	}
}

func newRoutesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes <departure>",
		Short: "List destination candidates from a departure airport",
		Long: `List destination candidates from a departure airport, busiest first.
Routes stored as favorites are starred.`,
		Example: `  flightsearch routes SEA`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(cmd.Context(), flags.cliOptions(cmd))
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			dep, err := env.Store.AirportByCode(ctx, args[0])
			if err != nil {
				return err
			}
			destinations, err := env.Store.SearchDestinations(ctx, dep.IATACode, dep.Name)
			if err != nil {
				return err
			}
			favorites, err := env.Store.ListFavorites(ctx)
			if err != nil {
				return err
			}

			saved := make(map[flightdb.Favorite]bool, len(favorites))
			for _, f := range favorites {
				saved[f] = true
			}
			renderRoutes(cmd.OutOrStdout(), dep, destinations, saved)
			return nil
		},
	}
}
