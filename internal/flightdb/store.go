package flightdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

const driverName = "sqlite"

const (
	autocompleteQuery = `SELECT iata_code, name, passengers FROM airport
		WHERE iata_code LIKE '%' || ? || '%' ESCAPE '\' OR name LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY passengers DESC`

	destinationsQuery = `SELECT iata_code, name, passengers FROM airport
		WHERE iata_code NOT LIKE '%' || ? || '%' ESCAPE '\' AND name NOT LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY passengers DESC`

	airportByCodeQuery = `SELECT iata_code, name, passengers FROM airport WHERE iata_code = ?`

	favoritesQuery = `SELECT departure_code, destination_code FROM favorite ORDER BY id`

	insertFavorite = `INSERT INTO favorite (departure_code, destination_code) VALUES (?, ?)
		ON CONFLICT (departure_code, destination_code) DO NOTHING`

	deleteFavorite = `DELETE FROM favorite WHERE departure_code = ? AND destination_code = ?`

	upsertAirport = `INSERT INTO airport (iata_code, name, passengers) VALUES (?, ?, ?)
		ON CONFLICT (iata_code) DO UPDATE SET name = excluded.name, passengers = excluded.passengers`
)

// Store is the SQLite-backed airport reference and favorites store. Every
// successful write publishes a change for the table it touched.
type Store struct {
	db      *sqlx.DB
	path    string
	changes *Notifier

	external externalState
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	dsn, err := dataSourceName(path)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return &Store{db: db, path: path, changes: &Notifier{}}, nil
}

// dataSourceName builds a file URI for path so characters such as '?' and '#'
// stay part of the file name.
func dataSourceName(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	}
	return u.String(), nil
}

// NewStore wraps an existing connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, changes: &Notifier{}}
}

// Path returns the database file path given to Open.
func (s *Store) Path() string {
	return s.path
}

// Changes returns the notifier that receives a publish after every write.
func (s *Store) Changes() *Notifier {
	return s.changes
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SearchAutocomplete returns airports whose code or name contains query,
// busiest first. Matching follows SQLite LIKE, which is case-insensitive for
// ASCII.
func (s *Store) SearchAutocomplete(ctx context.Context, query string) ([]Airport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	pattern := escapeLike(query)
	var airports []Airport
	if err := s.db.SelectContext(ctx, &airports, autocompleteQuery, pattern, pattern); err != nil {
		return nil, fmt.Errorf("search autocomplete: %w", err)
	}
	return airports, nil
}

// SearchDestinations returns airports whose code does not contain
// departureCode and whose name does not contain departureName, busiest first.
func (s *Store) SearchDestinations(ctx context.Context, departureCode, departureName string) ([]Airport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var airports []Airport
	if err := s.db.SelectContext(ctx, &airports, destinationsQuery, escapeLike(departureCode), escapeLike(departureName)); err != nil {
		return nil, fmt.Errorf("search destinations: %w", err)
	}
	return airports, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ErrAirportNotFound is returned by AirportByCode for an unknown code.
var ErrAirportNotFound = errors.New("airport not found")

// AirportByCode looks up one airport by its exact IATA code.
func (s *Store) AirportByCode(ctx context.Context, code string) (Airport, error) {
	if s.db == nil {
		return NoAirport, fmt.Errorf("database not opened")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	var a Airport
	if err := s.db.GetContext(ctx, &a, airportByCodeQuery, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NoAirport, fmt.Errorf("%s: %w", code, ErrAirportNotFound)
		}
		return NoAirport, fmt.Errorf("get airport %s: %w", code, err)
	}
	return a, nil
}

// ListFavorites returns every stored favorite in insertion order.
func (s *Store) ListFavorites(ctx context.Context) ([]Favorite, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var favorites []Favorite
	if err := s.db.SelectContext(ctx, &favorites, favoritesQuery); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite stores fav. Adding a pair that already exists is a no-op.
func (s *Store) AddFavorite(ctx context.Context, fav Favorite) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.ExecContext(ctx, insertFavorite, fav.DepartureCode, fav.DestinationCode)
	if err != nil {
		return fmt.Errorf("insert favorite %s: %w", fav, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.noteLocalWrite(ctx)
		s.changes.Publish(TableFavorite)
	}
	return nil
}

// RemoveFavorite deletes the departure→destination pair. Removing a pair that
// is not stored is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, departureCode, destinationCode string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.ExecContext(ctx, deleteFavorite, departureCode, destinationCode)
	if err != nil {
		return fmt.Errorf("delete favorite %s → %s: %w", departureCode, destinationCode, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.noteLocalWrite(ctx)
		s.changes.Publish(TableFavorite)
	}
	return nil
}

// CountAirports returns the number of reference airports.
func (s *Store) CountAirports(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM airport`); err != nil {
		return 0, fmt.Errorf("count airports: %w", err)
	}
	return n, nil
}

// PutAirports inserts or replaces airports in a single transaction. It is the
// seeding path; the interactive tool never mutates the airport table.
func (s *Store) PutAirports(ctx context.Context, airports []Airport) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if len(airports) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, upsertAirport)
	if err != nil {
		return fmt.Errorf("prepare airport insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range airports {
		if _, err := stmt.ExecContext(ctx, a.IATACode, a.Name, a.Passengers); err != nil {
			return fmt.Errorf("insert airport %s: %w", a.IATACode, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	s.noteLocalWrite(ctx)
	s.changes.Publish(TableAirport)
	return nil
}
