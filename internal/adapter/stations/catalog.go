// Package stations loads the local DWD station reference table.
package stations

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/wichmann/retrowetter/internal/domain"
)

// Reference table column names. The table is semicolon-delimited UTF-8 with
// German headers; columns beyond identity, name, region, and coordinates are
// validated where required and then dropped.
const (
	colStationID = "Stations_id"
	colStartDate = "von_datum"
	colEndDate   = "bis_datum"
	colLatitude  = "geoBreite"
	colLongitude = "geoLaenge"
	colName      = "Stationsname"
	colRegion    = "Bundesland"
)

// Catalog reads StationRecords from a local reference file. The table is
// small and curated, so any malformed row fails the whole load rather than
// being skipped.
type Catalog struct {
	path   string
	logger *slog.Logger
}

// NewCatalog creates a catalog backed by the given file path.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	return &Catalog{path: path, logger: logger}
}

// ListStations returns all stations in table order.
func (c *Catalog) ListStations() ([]domain.StationRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open station table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read station table %s: %w", c.path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("station table %s has no data rows", c.path)
	}

	cols, err := columnIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("station table %s: %w", c.path, err)
	}

	out := make([]domain.StationRecord, 0, len(records)-1)
	for line, record := range records[1:] {
		station, err := parseStation(cols, record)
		if err != nil {
			return nil, fmt.Errorf("station table %s line %d: %w", c.path, line+2, err)
		}
		out = append(out, station)
	}

	c.logger.Info("station catalog loaded", "stations", len(out), "path", c.path)
	return out, nil
}

func parseStation(cols map[string]int, record []string) (domain.StationRecord, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := domain.CanonicalStationID(cell(colStationID))
	if err != nil {
		return domain.StationRecord{}, err
	}

	// Service dates are not carried into the record, but a malformed date
	// means a broken table and fails the load.
	if _, err := domain.ParseMeasurementDate(cell(colStartDate)); err != nil {
		return domain.StationRecord{}, err
	}
	if _, err := domain.ParseMeasurementDate(cell(colEndDate)); err != nil {
		return domain.StationRecord{}, err
	}

	lat, err := strconv.ParseFloat(cell(colLatitude), 64)
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("parse %s: %w", colLatitude, err)
	}
	lon, err := strconv.ParseFloat(cell(colLongitude), 64)
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("parse %s: %w", colLongitude, err)
	}

	return domain.StationRecord{
		ID:        id,
		Name:      cell(colName),
		Region:    cell(colRegion),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colStationID, colStartDate, colEndDate, colLatitude, colLongitude, colName, colRegion} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}
