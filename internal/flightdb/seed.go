package flightdb

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed data/airports.csv
var defaultAirportsCSV []byte

// DefaultAirports returns the bundled reference dataset.
func DefaultAirports() ([]Airport, error) {
	return ParseAirportsCSV(bytes.NewReader(defaultAirportsCSV))
}

// ParseAirportsCSV reads "iata_code,name,passengers" rows. A header row is
// skipped when present. Rows without a code or name are dropped.
func ParseAirportsCSV(r io.Reader) ([]Airport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var airports []Airport
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read airports csv: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "iata_code") {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(record[0]))
		name := strings.TrimSpace(record[1])
		if code == "" || name == "" {
			continue
		}
		passengers, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil || passengers < 0 {
			return nil, fmt.Errorf("airports csv line %d: invalid passengers %q", line, record[2])
		}
		airports = append(airports, Airport{IATACode: code, Name: name, Passengers: passengers})
	}
	if len(airports) == 0 {
		return nil, fmt.Errorf("no airports found in csv")
	}
	return airports, nil
}

// SeedIfEmpty loads the bundled dataset when the airport table has no rows.
// It reports how many airports were inserted.
func (s *Store) SeedIfEmpty(ctx context.Context) (int, error) {
	count, err := s.CountAirports(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	airports, err := DefaultAirports()
	if err != nil {
		return 0, err
	}
	if err := s.PutAirports(ctx, airports); err != nil {
		return 0, err
	}
	return len(airports), nil
}
