package state

import (
	"strings"

	"github.com/five82/flightsearch/internal/flightdb"
)

// Phase is the coarse state derived from a SearchState.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTyping
	PhaseSelected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// SearchState is the single live search session.
type SearchState struct {
	TextInput         string
	SelectedAirport   flightdb.Airport
	IsAirportSelected bool

	// FavoriteSavedFlags caches whether a candidate route is stored. An
	// absent key means not yet reconciled.
	FavoriteSavedFlags map[flightdb.Favorite]bool

	Suggestions  []flightdb.Airport
	Destinations []flightdb.Airport
	Favorites    []flightdb.Favorite

	Version uint64
}

// IsSaved reports whether the flags hold an explicit true for fav.
func (s SearchState) IsSaved(fav flightdb.Favorite) bool {
	return s.FavoriteSavedFlags[fav]
}

// Phase derives the current phase.
func (s SearchState) Phase() Phase {
	switch {
	case s.IsAirportSelected:
		return PhaseSelected
	case strings.TrimSpace(s.TextInput) != "":
		return PhaseTyping
	default:
		return PhaseIdle
	}
}

func (s SearchState) clone() SearchState {
	out := s
	out.Suggestions = cloneSlice(s.Suggestions)
	out.Destinations = cloneSlice(s.Destinations)
	out.Favorites = cloneSlice(s.Favorites)
	if s.FavoriteSavedFlags != nil {
		out.FavoriteSavedFlags = make(map[flightdb.Favorite]bool, len(s.FavoriteSavedFlags))
		for k, v := range s.FavoriteSavedFlags {
			out.FavoriteSavedFlags[k] = v
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
