// Package flightdb is the local SQLite store behind flightsearch.
//
// # Overview
//
// Two tables live in one database file:
//
//   - airport: read-only reference data (IATA code, name, passenger count),
//     loaded once by the seed step and never written by the interactive tool
//   - favorite: starred departure→destination pairs, unique per pair
//
// The schema is owned by goose migrations embedded from migrations/*.sql.
// Queries go through sqlx over the pure-Go modernc.org/sqlite driver, so the
// binary has no cgo requirement.
//
// # Change Notification
//
// Every write that changes rows publishes the touched table on the store's
// Notifier. Live query streams (see package flights) subscribe to those
// tables and re-run their query on each publish. A Watcher extends this to
// writes made by other processes: it watches the database file (and its WAL)
// with fsnotify and, after a short quiet period, asks the store which tables
// another connection changed. SQLite's data_version pragma only moves for
// other connections' commits, so the store's own writes are not published
// twice, and only tables whose contents changed are republished.
//
// # Write Semantics
//
//   - AddFavorite on an existing pair is a no-op (ON CONFLICT DO NOTHING)
//   - RemoveFavorite on a missing pair is a no-op
//   - Neither publishes a change when no row was affected
//
// # Matching
//
// Autocomplete and destination filtering use SQLite LIKE with the query
// wrapped in '%'. LIKE is case-insensitive for ASCII letters. '%', '_' and
// '\' in the query are escaped, so they only match themselves.
//
// # Usage Example
//
//	store, err := flightdb.Open(cfg.DatabasePath)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	if err := store.Migrate(); err != nil {
//		return err
//	}
//	if _, err := store.SeedIfEmpty(ctx); err != nil {
//		return err
//	}
//
//	airports, err := store.SearchAutocomplete(ctx, "sea")
package flightdb
