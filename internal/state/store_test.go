package state

import (
	"testing"

	"github.com/five82/flightsearch/internal/flightdb"
)

var (
	sea = flightdb.Airport{IATACode: "SEA", Name: "Seattle", Passengers: 900}
	pdx = flightdb.Airport{IATACode: "PDX", Name: "Portland", Passengers: 500}
	lax = flightdb.Airport{IATACode: "LAX", Name: "Los Angeles", Passengers: 1000}
)

func TestStore_UpdateRecomputesSelection(t *testing.T) {
	var s Store

	got := s.Update(func(st SearchState) SearchState {
		st.TextInput = "sea"
		st.IsAirportSelected = true // contradicts SelectedAirport
		return st
	})
	if got.IsAirportSelected {
		t.Fatal("IsAirportSelected = true with no airport selected")
	}

	got = s.Update(func(st SearchState) SearchState {
		st.SelectedAirport = sea
		return st
	})
	if !got.IsAirportSelected {
		t.Fatal("IsAirportSelected = false after selecting SEA")
	}
	if got.Version != 2 {
		t.Fatalf("Version = %d, want 2", got.Version)
	}
}

func TestStore_SnapshotClone(t *testing.T) {
	var s Store
	fav := flightdb.Route(sea, lax)
	s.Update(func(st SearchState) SearchState {
		st.Suggestions = []flightdb.Airport{sea}
		st.FavoriteSavedFlags = map[flightdb.Favorite]bool{fav: true}
		return st
	})

	snap := s.Snapshot()
	snap.Suggestions[0].IATACode = "XXX"
	snap.FavoriteSavedFlags[fav] = false

	again := s.Snapshot()
	if again.Suggestions[0].IATACode != "SEA" {
		t.Fatalf("Snapshot should clone suggestions; got %q", again.Suggestions[0].IATACode)
	}
	if !again.IsSaved(fav) {
		t.Fatal("Snapshot should clone flags")
	}
}

func TestStore_UpdateSeesCopy(t *testing.T) {
	var s Store
	fav := flightdb.Route(sea, lax)
	s.Update(func(st SearchState) SearchState {
		st.FavoriteSavedFlags = map[flightdb.Favorite]bool{fav: true}
		return st
	})

	var leaked map[flightdb.Favorite]bool
	s.Update(func(st SearchState) SearchState {
		leaked = st.FavoriteSavedFlags
		return st
	})
	leaked[fav] = false
	if !s.IsSaved(fav) {
		t.Fatal("map handed to Update escaped into stored state")
	}
}

func TestStore_ChangesCoalesce(t *testing.T) {
	var s Store
	for i := 0; i < 5; i++ {
		s.Update(func(st SearchState) SearchState { return st })
	}

	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a pending change notification")
	}
	select {
	case <-s.Changes():
		t.Fatal("notifications should coalesce into one")
	default:
	}
}

func TestSearchState_Phase(t *testing.T) {
	tests := []struct {
		name  string
		state SearchState
		want  Phase
	}{
		{"blank", SearchState{}, PhaseIdle},
		{"whitespace", SearchState{TextInput: "  "}, PhaseIdle},
		{"typing", SearchState{TextInput: "se"}, PhaseTyping},
		{"selected", SearchState{TextInput: "se", SelectedAirport: sea, IsAirportSelected: true}, PhaseSelected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Phase(); got != tt.want {
				t.Fatalf("Phase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchState_IsSavedAbsentIsFalse(t *testing.T) {
	st := SearchState{FavoriteSavedFlags: map[flightdb.Favorite]bool{
		flightdb.Route(sea, pdx): false,
	}}
	if st.IsSaved(flightdb.Route(sea, pdx)) {
		t.Fatal("explicit false should read as not saved")
	}
	if st.IsSaved(flightdb.Route(sea, lax)) {
		t.Fatal("absent key should read as not saved")
	}
}

func TestReconcileFlags(t *testing.T) {
	seaLax := flightdb.Route(sea, lax)
	seaPdx := flightdb.Route(sea, pdx)
	pdxLax := flightdb.Route(pdx, lax)

	t.Run("marks visible favorites from the selected airport", func(t *testing.T) {
		flags := reconcileFlags(nil, []flightdb.Favorite{seaLax, pdxLax}, sea, []flightdb.Airport{lax, pdx})
		if !flags[seaLax] {
			t.Fatal("SEA → LAX should be saved")
		}
		if flags[seaPdx] || flags[pdxLax] {
			t.Fatalf("unexpected flags %v", flags)
		}
	})

	t.Run("ignores favorites that are not candidates", func(t *testing.T) {
		flags := reconcileFlags(nil, []flightdb.Favorite{seaLax}, sea, []flightdb.Airport{pdx})
		if len(flags) != 0 {
			t.Fatalf("flags = %v, want none", flags)
		}
	})

	t.Run("no selection is a no-op", func(t *testing.T) {
		flags := reconcileFlags(nil, []flightdb.Favorite{seaLax}, flightdb.NoAirport, []flightdb.Airport{lax})
		if len(flags) != 0 {
			t.Fatalf("flags = %v, want none", flags)
		}
	})

	t.Run("never clears a flag", func(t *testing.T) {
		flags := map[flightdb.Favorite]bool{seaLax: true}
		flags = reconcileFlags(flags, nil, sea, []flightdb.Airport{lax})
		if !flags[seaLax] {
			t.Fatal("reconcile cleared a flag for a favorite no longer stored")
		}
	})
}
