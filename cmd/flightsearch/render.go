package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/five82/flightsearch/internal/flightdb"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Passengers", Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	return t
}

func renderAirports(w io.Writer, airports []flightdb.Airport) {
	if len(airports) == 0 {
		fmt.Fprintln(w, "No matching airports.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Passengers"})
	for _, a := range airports {
		t.AppendRow(table.Row{a.IATACode, a.Name, a.Passengers})
	}
	t.Render()
}

func renderRoutes(w io.Writer, dep flightdb.Airport, destinations []flightdb.Airport, saved map[flightdb.Favorite]bool) {
	fmt.Fprintf(w, "Flights from %s\n", dep.Label())
	if len(destinations) == 0 {
		fmt.Fprintln(w, "No destinations.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"", "Code", "Name", "Passengers"})
	for _, dest := range destinations {
		star := ""
		if saved[flightdb.Route(dep, dest)] {
			star = "★"
		}
		t.AppendRow(table.Row{star, dest.IATACode, dest.Name, dest.Passengers})
	}
	t.Render()
}

func renderFavorites(w io.Writer, favorites []flightdb.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorite routes.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Departure", "Destination"})
	for i, f := range favorites {
		t.AppendRow(table.Row{i + 1, f.DepartureCode, f.DestinationCode})
	}
	t.Render()
}
