package flightdb

import "strings"

// Airport is a row of the read-only airport reference table.
type Airport struct {
	IATACode   string `db:"iata_code" json:"iataCode"`
	Name       string `db:"name" json:"name"`
	Passengers int64  `db:"passengers" json:"passengers"`
}

// NoAirport marks "no departure airport selected". It is the zero Airport.
var NoAirport = Airport{}

// IsNone reports whether a is the NoAirport sentinel.
func (a Airport) IsNone() bool {
	return a.IATACode == "" && a.Name == ""
}

// Label renders the airport as "SEA  Seattle-Tacoma International".
func (a Airport) Label() string {
	if a.IsNone() {
		return ""
	}
	return strings.TrimSpace(a.IATACode + "  " + a.Name)
}

// Favorite is a starred departure→destination pair. The ordered pair is its
// identity, so it is usable as a map key.
type Favorite struct {
	DepartureCode   string `db:"departure_code" json:"departureCode"`
	DestinationCode string `db:"destination_code" json:"destinationCode"`
}

// Route builds the Favorite for flying from dep to dest.
func Route(dep, dest Airport) Favorite {
	return Favorite{DepartureCode: dep.IATACode, DestinationCode: dest.IATACode}
}

// String renders the pair as "SEA → LAX".
func (f Favorite) String() string {
	return f.DepartureCode + " → " + f.DestinationCode
}

// Table names a table whose changes can be observed.
type Table string

const (
	TableAirport  Table = "airport"
	TableFavorite Table = "favorite"
)
