// Package ui provides the Bubble Tea terminal interface for flightsearch.
//
// The screen is a search box above a single list. What the list shows
// follows the search phase: favorite routes (newest first) when the box is
// empty, departure suggestions while typing, and destination candidates with
// a star per route once a departure airport is selected.
//
// The UI never touches storage. Key presses become state.Machine
// transitions, and the model re-reads a snapshot whenever the state store
// signals a change.
package ui
