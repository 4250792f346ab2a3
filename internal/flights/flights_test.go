package flights

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/flightsearch/internal/flightdb"
)

const waitFor = 2 * time.Second

var (
	seattle    = flightdb.Airport{IATACode: "SEA", Name: "Seattle", Passengers: 900}
	portland   = flightdb.Airport{IATACode: "PDX", Name: "Portland", Passengers: 500}
	losAngeles = flightdb.Airport{IATACode: "LAX", Name: "Los Angeles", Passengers: 1000}
)

func newTestFacade(t *testing.T) (*Facade, *flightdb.Store) {
	t.Helper()

	store, err := flightdb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())
	require.NoError(t, store.PutAirports(context.Background(), []flightdb.Airport{seattle, portland, losAngeles}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := New(ctx, store, store.Changes(), Options{Logger: zerolog.Nop()})
	t.Cleanup(f.Close)
	return f, store
}

// collect subscribes and forwards every emission to a buffered channel.
func collect[T any](t *testing.T, s Stream[T]) (<-chan T, func()) {
	t.Helper()
	ch := make(chan T, 32)
	cancel := s.Subscribe(func(v T) { ch <- v })
	t.Cleanup(cancel)
	return ch, cancel
}

func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for emission")
		var zero T
		return zero
	}
}

func assertQuiet[T any](t *testing.T, ch <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected emission %v", v)
	case <-time.After(d):
	}
}

func codes(airports []flightdb.Airport) []string {
	out := make([]string, 0, len(airports))
	for _, a := range airports {
		out = append(out, a.IATACode)
	}
	return out
}

func TestSearchAutocomplete_EmitsOrderedMatches(t *testing.T) {
	f, _ := newTestFacade(t)

	ch, _ := collect(t, f.SearchAutocomplete("a"))
	assert.Equal(t, []string{"LAX", "SEA", "PDX"}, codes(next(t, ch)))
}

func TestSearchAutocomplete_TrimsQuery(t *testing.T) {
	f, _ := newTestFacade(t)

	ch, _ := collect(t, f.SearchAutocomplete("  pdx "))
	assert.Equal(t, []string{"PDX"}, codes(next(t, ch)))
}

func TestSearchAutocomplete_BlankNeverSubscribes(t *testing.T) {
	src := &countingSource{}
	var notifier flightdb.Notifier
	f := New(context.Background(), src, &notifier, Options{Logger: zerolog.Nop(), CacheTTL: -1})

	for _, q := range []string{"", "   ", "\t"} {
		ch, cancel := collect(t, f.SearchAutocomplete(q))
		assertQuiet(t, ch, 30*time.Millisecond)
		cancel()
	}
	assert.Zero(t, src.autocompleteCalls.Load())
	assert.Zero(t, notifier.Subscribers(flightdb.TableAirport))
}

func TestSearchDestinations_ExcludesDeparture(t *testing.T) {
	f, _ := newTestFacade(t)

	ch, _ := collect(t, f.SearchDestinations("SEA", "Seattle"))
	got := next(t, ch)
	assert.Equal(t, []string{"LAX", "PDX"}, codes(got))
}

func TestListFavorites_ReemitsAfterWrites(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	ch, _ := collect(t, f.ListFavorites())
	assert.Empty(t, next(t, ch))

	fav := flightdb.Route(seattle, losAngeles)
	require.NoError(t, f.AddFavorite(ctx, fav))
	assert.Equal(t, []flightdb.Favorite{fav}, next(t, ch))

	require.NoError(t, f.RemoveFavorite(ctx, fav.DepartureCode, fav.DestinationCode))
	assert.Empty(t, next(t, ch))
}

func TestAddFavorite_TwiceKeepsOneRow(t *testing.T) {
	f, store := newTestFacade(t)
	ctx := context.Background()
	fav := flightdb.Route(seattle, portland)

	require.NoError(t, f.AddFavorite(ctx, fav))
	require.NoError(t, f.AddFavorite(ctx, fav))

	favs, err := store.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []flightdb.Favorite{fav}, favs)
}

func TestRemoveFavorite_AbsentCompletes(t *testing.T) {
	f, store := newTestFacade(t)
	ctx := context.Background()

	require.NoError(t, f.RemoveFavorite(ctx, "SEA", "PDX"))
	favs, err := store.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestCancel_StopsOnlyThatSubscription(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	first, cancelFirst := collect(t, f.ListFavorites())
	second, _ := collect(t, f.ListFavorites())
	next(t, first)
	next(t, second)

	cancelFirst()
	cancelFirst()

	require.NoError(t, f.AddFavorite(ctx, flightdb.Route(portland, seattle)))
	assert.Len(t, next(t, second), 1)
	assertQuiet(t, first, 50*time.Millisecond)
}

func TestCancel_ReleasesTableSubscription(t *testing.T) {
	f, store := newTestFacade(t)

	before := store.Changes().Subscribers(flightdb.TableFavorite)
	_, cancel := collect(t, f.ListFavorites())
	assert.Equal(t, before+1, store.Changes().Subscribers(flightdb.TableFavorite))

	cancel()
	assert.Equal(t, before, store.Changes().Subscribers(flightdb.TableFavorite))
}

func TestAutocompleteCache_FlushedOnAirportChange(t *testing.T) {
	src := &countingSource{airports: []flightdb.Airport{seattle}}
	var notifier flightdb.Notifier
	f := New(context.Background(), src, &notifier, Options{Logger: zerolog.Nop()})
	defer f.Close()

	ch, cancel := collect(t, f.SearchAutocomplete("se"))
	next(t, ch)
	cancel()

	ch, _ = collect(t, f.SearchAutocomplete("se"))
	next(t, ch)
	assert.Equal(t, int32(1), src.autocompleteCalls.Load(), "second subscription should hit the cache")

	notifier.Publish(flightdb.TableAirport)
	next(t, ch)
	assert.Equal(t, int32(2), src.autocompleteCalls.Load(), "airport change should flush the cache")
}

func TestLiveQuery_FailureKeepsStreamAlive(t *testing.T) {
	src := &countingSource{failFavorites: 1}
	var notifier flightdb.Notifier
	f := New(context.Background(), src, &notifier, Options{Logger: zerolog.Nop(), CacheTTL: -1})

	ch, _ := collect(t, f.ListFavorites())
	assertQuiet(t, ch, 30*time.Millisecond)

	notifier.Publish(flightdb.TableFavorite)
	assert.Empty(t, next(t, ch))
}

type countingSource struct {
	mu                sync.Mutex
	airports          []flightdb.Airport
	failFavorites     int
	autocompleteCalls atomic.Int32
}

func (s *countingSource) SearchAutocomplete(context.Context, string) ([]flightdb.Airport, error) {
	s.autocompleteCalls.Add(1)
	return s.airports, nil
}

func (s *countingSource) SearchDestinations(context.Context, string, string) ([]flightdb.Airport, error) {
	return s.airports, nil
}

func (s *countingSource) ListFavorites(context.Context) ([]flightdb.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFavorites > 0 {
		s.failFavorites--
		return nil, context.DeadlineExceeded
	}
	return []flightdb.Favorite{}, nil
}

func (s *countingSource) AddFavorite(context.Context, flightdb.Favorite) error { return nil }

func (s *countingSource) RemoveFavorite(context.Context, string, string) error { return nil }
