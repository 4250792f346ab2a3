package flightdb

import (
	"context"
	"fmt"
	"sync"
)

const (
	dataVersionQuery = `PRAGMA data_version`

	airportFingerprintQuery = `SELECT COUNT(*) || ':' || COALESCE(SUM(passengers), 0) || ':' || COALESCE(SUM(LENGTH(name)), 0) FROM airport`

	favoriteFingerprintQuery = `SELECT COUNT(*) || ':' || COALESCE(MAX(id), 0) || ':' || COALESCE(SUM(id), 0) FROM favorite`
)

// externalState remembers what the store last saw of commits made by other
// connections.
type externalState struct {
	mu           sync.Mutex
	primed       bool
	dataVersion  int64
	fingerprints map[Table]string
}

// ExternalChanges reports the tables another connection has modified since
// the previous call. SQLite's data_version only moves for commits made on
// other connections, so this store's own writes are never reported. The
// first call records a baseline and reports nothing.
func (s *Store) ExternalChanges(ctx context.Context) ([]Table, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	s.external.mu.Lock()
	defer s.external.mu.Unlock()

	var version int64
	if err := s.db.GetContext(ctx, &version, dataVersionQuery); err != nil {
		return nil, fmt.Errorf("read data version: %w", err)
	}
	if s.external.primed && version == s.external.dataVersion {
		return nil, nil
	}

	prints, err := s.fingerprints(ctx)
	if err != nil {
		return nil, err
	}

	var changed []Table
	if s.external.primed {
		for _, table := range []Table{TableAirport, TableFavorite} {
			if prints[table] != s.external.fingerprints[table] {
				changed = append(changed, table)
			}
		}
	}
	s.external.primed = true
	s.external.dataVersion = version
	s.external.fingerprints = prints
	return changed, nil
}

// noteLocalWrite folds this store's own write into the baseline so the next
// ExternalChanges call does not mistake it for another connection's. When
// another connection has committed in the meantime the baseline is left alone
// and both changes are reported together.
func (s *Store) noteLocalWrite(ctx context.Context) {
	s.external.mu.Lock()
	defer s.external.mu.Unlock()
	if !s.external.primed {
		return
	}

	var version int64
	if err := s.db.GetContext(ctx, &version, dataVersionQuery); err != nil || version != s.external.dataVersion {
		return
	}
	if prints, err := s.fingerprints(ctx); err == nil {
		s.external.fingerprints = prints
	}
}

func (s *Store) fingerprints(ctx context.Context) (map[Table]string, error) {
	var airports, favorites string
	if err := s.db.GetContext(ctx, &airports, airportFingerprintQuery); err != nil {
		return nil, fmt.Errorf("fingerprint airports: %w", err)
	}
	if err := s.db.GetContext(ctx, &favorites, favoriteFingerprintQuery); err != nil {
		return nil, fmt.Errorf("fingerprint favorites: %w", err)
	}
	return map[Table]string{TableAirport: airports, TableFavorite: favorites}, nil
}
