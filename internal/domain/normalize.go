package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawRow is one tokenized line of a measurement file, keyed by column header
// exactly as it appears in the source (headers arrive whitespace-padded).
type RawRow map[string]string

// DWD KL column names after header trimming.
const (
	ColumnDate          = "MESS_DATUM"
	ColumnTempMax       = "TXK"
	ColumnTempMin       = "TNK"
	ColumnTempMean      = "TMK"
	ColumnGroundTempMin = "TGK"
	ColumnPrecipitation = "RSK"
	ColumnPrecipType    = "RSKF"
	ColumnSnowDepth     = "SHK_TAG"
	ColumnHumidityMean  = "UPM"
	ColumnVaporPressure = "VPM"
	ColumnCloudCover    = "NM"
)

// missingSentinel is the DWD placeholder for a reading that was not taken.
const missingSentinel = -999

// dateLayout is the 8-digit calendar date format used throughout DWD files.
const dateLayout = "20060102"

// Normalize converts raw measurement rows into the canonical date-indexed
// series for the given station. Rows whose date cell cannot be parsed are
// dropped; if every row is dropped the load fails with ErrEmptySeries.
// Duplicate dates keep the first occurrence. Numeric cells that fail
// coercion, including the -999 sentinel, become absent values.
func Normalize(stationID any, rows []RawRow) (NormalizedSeries, error) {
	id, err := CanonicalStationID(stationID)
	if err != nil {
		return NormalizedSeries{}, err
	}

	out := NormalizedSeries{StationID: id}
	seen := make(map[time.Time]bool, len(rows))
	for _, raw := range rows {
		cells := trimmedCells(raw)
		date, err := ParseMeasurementDate(cells[ColumnDate])
		if err != nil {
			continue
		}
		if seen[date] {
			continue
		}
		seen[date] = true

		out.Rows = append(out.Rows, MeasurementRow{
			Date:          date,
			TempMax:       coerceValue(cells[ColumnTempMax]),
			TempMin:       coerceValue(cells[ColumnTempMin]),
			TempMean:      coerceValue(cells[ColumnTempMean]),
			GroundTempMin: coerceValue(cells[ColumnGroundTempMin]),
			Precipitation: coerceValue(cells[ColumnPrecipitation]),
			PrecipType:    coerceValue(cells[ColumnPrecipType]),
			SnowDepth:     coerceValue(cells[ColumnSnowDepth]),
			HumidityMean:  coerceValue(cells[ColumnHumidityMean]),
			VaporPressure: coerceValue(cells[ColumnVaporPressure]),
			CloudCover:    coerceValue(cells[ColumnCloudCover]),
		})
	}

	if len(out.Rows) == 0 {
		return NormalizedSeries{}, fmt.Errorf("%w: station %s", ErrEmptySeries, id)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].Date.Before(out.Rows[j].Date)
	})
	return out, nil
}

// ParseMeasurementDate parses an 8-digit YYYYMMDD cell into a UTC calendar date.
func ParseMeasurementDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	date, err := time.ParseInLocation(dateLayout, cell, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, cell)
	}
	return date, nil
}

// trimmedCells rebuilds a raw row with whitespace-trimmed keys and values.
// Source files pad both headers and cells for column alignment.
func trimmedCells(raw RawRow) map[string]string {
	cells := make(map[string]string, len(raw))
	for k, v := range raw {
		cells[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return cells
}

// coerceValue parses a measurement cell as a float. Instruments routinely
// emit non-numeric placeholders, so coercion failure is an absent value,
// never an error.
func coerceValue(cell string) Value {
	if cell == "" {
		return Absent()
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f == missingSentinel {
		return Absent()
	}
	return Valid(f)
}
