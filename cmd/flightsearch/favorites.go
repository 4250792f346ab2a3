package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/flightsearch/internal/app"
	"github.com/five82/flightsearch/internal/flightdb"
)

func newFavoritesCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List starred routes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Open(cmd.Context(), flags.cliOptions(cmd))
			if err != nil {
				return err
			}
			defer env.Close()

			favorites, err := env.Store.ListFavorites(cmd.Context())
			if err != nil {
				return err
			}
			renderFavorites(cmd.OutOrStdout(), favorites)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "add <departure> <destination>",
			Short:   "Star a route",
			Example: `  flightsearch favorites add SEA LAX`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRoute(cmd, flags, args, func(env *app.Env, fav flightdb.Favorite) error {
					if err := env.Store.AddFavorite(cmd.Context(), fav); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Starred %s\n", fav)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "rm <departure> <destination>",
			Aliases: []string{"remove"},
			Short:   "Unstar a route",
			Example: `  flightsearch favorites rm SEA LAX`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRoute(cmd, flags, args, func(env *app.Env, fav flightdb.Favorite) error {
					if err := env.Store.RemoveFavorite(cmd.Context(), fav.DepartureCode, fav.DestinationCode); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", fav)
					return nil
				})
			},
		},
	)
	return cmd
}

// withRoute opens the database, resolves both airport codes, and runs fn with
// the route between them.
func withRoute(cmd *cobra.Command, flags *globalFlags, args []string, fn func(*app.Env, flightdb.Favorite) error) error {
	env, err := app.Open(cmd.Context(), flags.cliOptions(cmd))
	if err != nil {
		return err
	}
	defer env.Close()

	dep, err := env.Store.AirportByCode(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	dest, err := env.Store.AirportByCode(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	if dep.IATACode == dest.IATACode {
		return fmt.Errorf("departure and destination are both %s", dep.IATACode)
	}
	return fn(env, flightdb.Route(dep, dest))
}
