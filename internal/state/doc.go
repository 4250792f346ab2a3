// Package state owns the search and selection state of a flightsearch
// session.
//
// # Overview
//
// A session has exactly one SearchState. It records the typed text, the
// selected departure airport (or flightdb.NoAirport), and a map of candidate
// routes to saved/unsaved flags. The UI reads it and the Machine writes it.
//
// # Architecture
//
//	Machine (transitions)            UI (rendering)
//	┌─────────────────────┐          ┌──────────────────┐
//	│ SetText / Select    │          │                  │
//	│ Add/Remove favorite │          │                  │
//	│ stream callbacks    │          │                  │
//	│        ↓            │          │                  │
//	│ store.Update(fn)    │─────────→│ store.Snapshot() │
//	│        ↓            │ Changes()│        ↓         │
//	│ Dispatcher (writes) │          │   render view    │
//	└─────────────────────┘          └──────────────────┘
//
// # Store
//
// Store.Update applies an old-state → new-state function under a write lock,
// so readers never observe a half-applied transition. IsAirportSelected is
// recomputed from SelectedAirport after every update and Version is bumped.
// Snapshot returns a deep copy. Changes returns a channel that receives a
// value after updates; bursts coalesce into a single pending signal.
//
// # Machine
//
// Phases are derived from the fields, not stored:
//
//	Idle      blank text, nothing selected
//	Typing    non-blank text, nothing selected
//	Selected  non-blank text, departure airport selected
//
// SetText always lands in Idle or Typing. SelectAirport moves to Selected and
// subscribes to destination candidates for that airport, replacing any
// previous destination subscription. Every destination emission is
// reconciled against the latest favorites list.
//
// # Favorite flags
//
// AddFavoriteCandidate sets the flag before the insert is dispatched and
// RemoveFavoriteCandidate clears a true flag before the delete is dispatched.
// Writes are never awaited and never rolled back: a failed write leaves the
// flag out of step with the database until the next explicit action.
//
// Reconciliation only ever sets flags to true. A favorite deleted by another
// session stays starred here until the user removes it explicitly.
//
// # Dispatching writes
//
// Writes go through a Dispatcher. AsyncDispatcher runs them one at a time in
// submission order on a background goroutine and logs failures.
package state
