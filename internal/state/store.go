package state

import (
	"sync"

	"github.com/five82/flightsearch/internal/flightdb"
)

// Store coordinates access to the session's SearchState. The zero value is
// ready to use.
type Store struct {
	mu    sync.RWMutex
	state SearchState

	once    sync.Once
	changes chan struct{}
}

// Update applies fn to a copy of the current state and stores the result.
// fn runs under the store lock and must not call back into the Store.
func (s *Store) Update(fn func(SearchState) SearchState) SearchState {
	s.mu.Lock()
	next := fn(s.state.clone())
	next.IsAirportSelected = !next.SelectedAirport.IsNone()
	next.Version = s.state.Version + 1
	s.state = next
	out := next.clone()
	s.mu.Unlock()

	s.notify()
	return out
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// View runs fn against the current state without copying it. fn must not
// retain or modify the maps and slices it sees.
func (s *Store) View(fn func(SearchState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// IsSaved reports whether fav is flagged as saved.
func (s *Store) IsSaved(fav flightdb.Favorite) bool {
	var saved bool
	s.View(func(st SearchState) { saved = st.IsSaved(fav) })
	return saved
}

// Changes returns a channel that receives after updates. Notifications
// coalesce, so one receive may cover several updates.
func (s *Store) Changes() <-chan struct{} {
	return s.changesChan()
}

func (s *Store) changesChan() chan struct{} {
	s.once.Do(func() { s.changes = make(chan struct{}, 1) })
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changesChan() <- struct{}{}:
	default:
	}
}
