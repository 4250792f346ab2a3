package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/flightsearch/internal/flightdb"
	"github.com/five82/flightsearch/internal/flights"
)

// Queries is the query surface the machine subscribes to. *flights.Facade
// implements it.
type Queries interface {
	SearchAutocomplete(query string) flights.Stream[[]flightdb.Airport]
	SearchDestinations(departureCode, departureName string) flights.Stream[[]flightdb.Airport]
	ListFavorites() flights.Stream[[]flightdb.Favorite]
	AddFavorite(ctx context.Context, fav flightdb.Favorite) error
	RemoveFavorite(ctx context.Context, departureCode, destinationCode string) error
}

var _ Queries = (*flights.Facade)(nil)

// Preferences persists the last search text. *prefs.Store implements it.
type Preferences interface {
	SearchText() string
	SaveSearchText(text string) error
}

// Options configure a Machine.
type Options struct {
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Machine drives SearchState transitions and keeps the live query
// subscriptions that feed it.
type Machine struct {
	store    *Store
	queries  Queries
	prefs    Preferences
	dispatch Dispatcher
	debounce time.Duration
	logger   zerolog.Logger

	mu               sync.Mutex
	closed           bool
	stopSuggestions  func()
	stopDestinations func()
	stopFavorites    func()
}

// NewMachine builds a Machine over store. A nil store gets a fresh one; a nil
// prefs disables persistence of the search text.
func NewMachine(store *Store, queries Queries, prefs Preferences, dispatch Dispatcher, opts Options) *Machine {
	if store == nil {
		store = &Store{}
	}
	return &Machine{
		store:    store,
		queries:  queries,
		prefs:    prefs,
		dispatch: dispatch,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
}

// Store returns the state store the machine writes to.
func (m *Machine) Store() *Store {
	return m.store
}

// Start restores the last search text and subscribes to the favorites list.
// Everything started here is cancelled by Close, which also runs when ctx is
// done.
func (m *Machine) Start(ctx context.Context) {
	text := ""
	if m.prefs != nil {
		text = m.prefs.SearchText()
	}
	m.store.Update(func(s SearchState) SearchState {
		s.TextInput = text
		s.SelectedAirport = flightdb.NoAirport
		s.Destinations = nil
		return s
	})
	m.watchSuggestions(text)

	m.mu.Lock()
	if !m.closed {
		stop(m.stopFavorites)
		m.stopFavorites = m.queries.ListFavorites().Subscribe(m.applyFavorites)
	}
	m.mu.Unlock()

	if ctx != nil {
		context.AfterFunc(ctx, m.Close)
	}
	m.logger.Debug().Str("text", text).Msg("search session started")
}

// Close cancels every live subscription. Transitions after Close still update
// the store but start no new subscriptions.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	stop(m.stopSuggestions)
	stop(m.stopDestinations)
	stop(m.stopFavorites)
	m.stopSuggestions, m.stopDestinations, m.stopFavorites = nil, nil, nil
}

// SetText records newly typed text, drops any selection, and persists the
// text in the background.
func (m *Machine) SetText(text string) {
	m.store.Update(func(s SearchState) SearchState {
		s.TextInput = text
		s.SelectedAirport = flightdb.NoAirport
		s.Destinations = nil
		if strings.TrimSpace(text) == "" {
			s.Suggestions = nil
		}
		return s
	})

	if m.prefs != nil {
		m.dispatch.Dispatch("save search text", func(context.Context) error {
			return m.prefs.SaveSearchText(text)
		})
	}
	m.watchSuggestions(text)
}

// ClearText is SetText("").
func (m *Machine) ClearText() {
	m.SetText("")
}

// SelectAirport records a as the departure airport and subscribes to its
// destination candidates. Callers only select while the text is non-blank.
func (m *Machine) SelectAirport(a flightdb.Airport) {
	m.store.Update(func(s SearchState) SearchState {
		s.SelectedAirport = a
		s.Destinations = nil
		return s
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	stop(m.stopDestinations)
	m.stopDestinations = nil
	if m.closed || a.IsNone() {
		return
	}
	m.stopDestinations = m.queries.SearchDestinations(a.IATACode, a.Name).Subscribe(func(candidates []flightdb.Airport) {
		m.store.Update(func(s SearchState) SearchState {
			if s.SelectedAirport != a {
				return s
			}
			s.Destinations = candidates
			s.FavoriteSavedFlags = reconcileFlags(s.FavoriteSavedFlags, s.Favorites, a, candidates)
			return s
		})
	})
}

// AddFavoriteCandidate flags fav as saved, then dispatches the insert.
func (m *Machine) AddFavoriteCandidate(fav flightdb.Favorite) {
	m.store.Update(func(s SearchState) SearchState {
		if s.FavoriteSavedFlags == nil {
			s.FavoriteSavedFlags = make(map[flightdb.Favorite]bool)
		}
		s.FavoriteSavedFlags[fav] = true
		return s
	})
	m.dispatch.Dispatch("add favorite "+fav.String(), func(ctx context.Context) error {
		return m.queries.AddFavorite(ctx, fav)
	})
}

// RemoveFavoriteCandidate clears a true flag for fav, then dispatches the
// delete. The delete is dispatched even when fav was not flagged.
func (m *Machine) RemoveFavoriteCandidate(fav flightdb.Favorite) {
	m.store.Update(func(s SearchState) SearchState {
		if s.FavoriteSavedFlags[fav] {
			s.FavoriteSavedFlags[fav] = false
		}
		return s
	})
	m.dispatch.Dispatch("remove favorite "+fav.String(), func(ctx context.Context) error {
		return m.queries.RemoveFavorite(ctx, fav.DepartureCode, fav.DestinationCode)
	})
}

// Reconcile flags every favorite from selected to one of candidates as saved.
// It never clears a flag.
func (m *Machine) Reconcile(favorites []flightdb.Favorite, selected flightdb.Airport, candidates []flightdb.Airport) {
	m.store.Update(func(s SearchState) SearchState {
		s.FavoriteSavedFlags = reconcileFlags(s.FavoriteSavedFlags, favorites, selected, candidates)
		return s
	})
}

// IsSaved reports whether fav is flagged as saved.
func (m *Machine) IsSaved(fav flightdb.Favorite) bool {
	return m.store.IsSaved(fav)
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() SearchState {
	return m.store.Snapshot()
}

func (m *Machine) watchSuggestions(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stop(m.stopSuggestions)
	stop(m.stopDestinations)
	m.stopSuggestions, m.stopDestinations = nil, nil
	if m.closed || strings.TrimSpace(text) == "" {
		return
	}

	stream := flights.Debounce(m.queries.SearchAutocomplete(text), m.debounce)
	m.stopSuggestions = stream.Subscribe(func(airports []flightdb.Airport) {
		m.store.Update(func(s SearchState) SearchState {
			if s.TextInput != text {
				return s
			}
			s.Suggestions = airports
			return s
		})
	})
}

func (m *Machine) applyFavorites(favorites []flightdb.Favorite) {
	m.store.Update(func(s SearchState) SearchState {
		s.Favorites = favorites
		if !s.SelectedAirport.IsNone() && len(s.Destinations) > 0 {
			s.FavoriteSavedFlags = reconcileFlags(s.FavoriteSavedFlags, favorites, s.SelectedAirport, s.Destinations)
		}
		return s
	})
}

func stop(cancel func()) {
	if cancel != nil {
		cancel()
	}
}
