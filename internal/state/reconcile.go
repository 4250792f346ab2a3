package state

import "github.com/five82/flightsearch/internal/flightdb"

// reconcileFlags marks every stored favorite departing from selected whose
// destination is among candidates. Flags are only ever set to true; pairs no
// longer in favorites keep whatever value they had.
func reconcileFlags(flags map[flightdb.Favorite]bool, favorites []flightdb.Favorite, selected flightdb.Airport, candidates []flightdb.Airport) map[flightdb.Favorite]bool {
	if flags == nil {
		flags = make(map[flightdb.Favorite]bool)
	}
	if selected.IsNone() || len(favorites) == 0 || len(candidates) == 0 {
		return flags
	}

	visible := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		visible[c.IATACode] = struct{}{}
	}
	for _, fav := range favorites {
		if fav.DepartureCode != selected.IATACode {
			continue
		}
		if _, ok := visible[fav.DestinationCode]; ok {
			flags[fav] = true
		}
	}
	return flags
}
