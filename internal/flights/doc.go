// Package flights is the query façade over the flightdb store.
//
// Reads come back as Streams: lazy, push-based sequences that run their query
// on Subscribe and again whenever the underlying table changes, until the
// subscriber cancels. Each Subscribe is independent; cancelling one never
// affects another.
//
//	cancel := facade.SearchAutocomplete("sea").Subscribe(func(airports []flightdb.Airport) {
//		render(airports)
//	})
//	defer cancel()
//
// Blank autocomplete text yields an Empty stream, so an unfiltered scan of the
// airport table never drives the UI.
//
// Debounce wraps any stream so that only an emission followed by a quiet
// window is delivered. The search state machine debounces autocomplete with a
// 500ms window by default.
//
// Autocomplete results are cached per query text with go-cache. The cache is
// flushed whenever the airport table publishes a change.
package flights
