package flights

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/five82/flightsearch/internal/flightdb"
)

// Source is the store the façade reads and writes. *flightdb.Store
// implements it.
type Source interface {
	SearchAutocomplete(ctx context.Context, query string) ([]flightdb.Airport, error)
	SearchDestinations(ctx context.Context, departureCode, departureName string) ([]flightdb.Airport, error)
	ListFavorites(ctx context.Context) ([]flightdb.Favorite, error)
	AddFavorite(ctx context.Context, fav flightdb.Favorite) error
	RemoveFavorite(ctx context.Context, departureCode, destinationCode string) error
}

var _ Source = (*flightdb.Store)(nil)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheCleanup = 10 * time.Minute
)

// Options configure a Facade.
type Options struct {
	Logger   zerolog.Logger
	CacheTTL time.Duration // zero uses the default; negative disables caching
}

// Facade exposes the stores as live result streams plus the two favorite
// writes.
type Facade struct {
	ctx     context.Context
	src     Source
	changes Changes
	logger  zerolog.Logger

	suggestions *cache.Cache
	stopFlush   func()
}

// New builds a Facade. Streams stop when ctx is cancelled.
func New(ctx context.Context, src Source, changes Changes, opts Options) *Facade {
	if ctx == nil {
		ctx = context.Background()
	}
	f := &Facade{
		ctx:       ctx,
		src:       src,
		changes:   changes,
		logger:    opts.Logger,
		stopFlush: func() {},
	}

	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	if ttl > 0 {
		f.suggestions = cache.New(ttl, defaultCacheCleanup)
		f.stopFlush = changes.Subscribe(flightdb.TableAirport, f.suggestions.Flush)
	}
	return f
}

// Close releases the cache invalidation subscription.
func (f *Facade) Close() {
	f.stopFlush()
}

// SearchAutocomplete streams airports whose code or name contains query,
// busiest first. A blank query yields an Empty stream and never touches the
// store.
func (f *Facade) SearchAutocomplete(query string) Stream[[]flightdb.Airport] {
	query = strings.TrimSpace(query)
	if query == "" {
		return Empty[[]flightdb.Airport]()
	}
	return liveQuery(f.ctx, f.changes, flightdb.TableAirport, f.logger, "autocomplete",
		func(ctx context.Context) ([]flightdb.Airport, error) {
			return f.autocomplete(ctx, query)
		})
}

func (f *Facade) autocomplete(ctx context.Context, query string) ([]flightdb.Airport, error) {
	if f.suggestions != nil {
		if cached, ok := f.suggestions.Get(query); ok {
			return cloneAirports(cached.([]flightdb.Airport)), nil
		}
	}
	airports, err := f.src.SearchAutocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	if f.suggestions != nil {
		f.suggestions.SetDefault(query, cloneAirports(airports))
	}
	return airports, nil
}

// SearchDestinations streams candidate destinations for a departure airport:
// every airport whose code does not contain departureCode and whose name does
// not contain departureName, busiest first.
func (f *Facade) SearchDestinations(departureCode, departureName string) Stream[[]flightdb.Airport] {
	return liveQuery(f.ctx, f.changes, flightdb.TableAirport, f.logger, "destinations",
		func(ctx context.Context) ([]flightdb.Airport, error) {
			return f.src.SearchDestinations(ctx, departureCode, departureName)
		})
}

// ListFavorites streams all stored favorites, re-emitting after every
// favorites change.
func (f *Facade) ListFavorites() Stream[[]flightdb.Favorite] {
	return liveQuery(f.ctx, f.changes, flightdb.TableFavorite, f.logger, "favorites", f.src.ListFavorites)
}

// AddFavorite stores fav; an existing pair is left as is.
func (f *Facade) AddFavorite(ctx context.Context, fav flightdb.Favorite) error {
	return f.src.AddFavorite(ctx, fav)
}

// RemoveFavorite deletes the pair if present.
func (f *Facade) RemoveFavorite(ctx context.Context, departureCode, destinationCode string) error {
	return f.src.RemoveFavorite(ctx, departureCode, destinationCode)
}

func cloneAirports(in []flightdb.Airport) []flightdb.Airport {
	if in == nil {
		return nil
	}
	out := make([]flightdb.Airport, len(in))
	copy(out, in)
	return out
}
