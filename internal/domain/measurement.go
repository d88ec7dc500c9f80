package domain

import (
	"sort"
	"time"
)

// Value is a measurement reading that may be absent. The DWD emits the
// sentinel -999 for missing readings; normalization turns that (and any
// non-numeric cell) into an absent Value instead of a zero.
type Value struct {
	f  float64
	ok bool
}

// Valid wraps a concrete reading.
func Valid(f float64) Value { return Value{f: f, ok: true} }

// Absent is the explicit missing-reading marker.
func Absent() Value { return Value{} }

// Float returns the reading and whether it is present.
func (v Value) Float() (float64, bool) { return v.f, v.ok }

// IsValid reports whether a reading is present.
func (v Value) IsValid() bool { return v.ok }

// Sub returns the difference v - other, or absent if either side is absent.
func (v Value) Sub(other Value) Value {
	if !v.ok || !other.ok {
		return Absent()
	}
	return Valid(v.f - other.f)
}

// MeasurementRow is one calendar day of observations for one station.
// Field names follow the DWD KL column codes; see the package documentation.
type MeasurementRow struct {
	Date time.Time // midnight UTC, the row key

	TempMax       Value // TXK, daily maximum air temperature at 2m, °C
	TempMin       Value // TNK, daily minimum air temperature at 2m, °C
	TempMean      Value // TMK, daily mean temperature, °C
	GroundTempMin Value // TGK, minimum air temperature at 5cm, °C
	Precipitation Value // RSK, precipitation height, mm
	PrecipType    Value // RSKF, precipitation form code
	SnowDepth     Value // SHK_TAG, snow depth, cm
	HumidityMean  Value // UPM, mean relative humidity, %
	VaporPressure Value // VPM, mean vapor pressure, hPa
	CloudCover    Value // NM, mean cloud cover, eighths
}

// NormalizedSeries is the canonical date-indexed series for one station.
// Rows are strictly ascending by date with no duplicates.
type NormalizedSeries struct {
	StationID string
	Rows      []MeasurementRow
}

// RowAt returns the row for the given calendar date, if present.
func (s NormalizedSeries) RowAt(date time.Time) (MeasurementRow, bool) {
	key := dateKey(date)
	i := sort.Search(len(s.Rows), func(i int) bool {
		return !s.Rows[i].Date.Before(key)
	})
	if i < len(s.Rows) && s.Rows[i].Date.Equal(key) {
		return s.Rows[i], true
	}
	return MeasurementRow{}, false
}

// FilterByYearRange returns a new series containing only rows whose year
// falls in [start, end]. The input series is not modified.
func (s NormalizedSeries) FilterByYearRange(start, end int) NormalizedSeries {
	out := NormalizedSeries{StationID: s.StationID}
	for _, row := range s.Rows {
		y := row.Date.Year()
		if y >= start && y <= end {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Years returns the distinct calendar years present, ascending.
func (s NormalizedSeries) Years() []int {
	var years []int
	for _, row := range s.Rows {
		y := row.Date.Year()
		if len(years) == 0 || years[len(years)-1] != y {
			years = append(years, y)
		}
	}
	return years
}

// dateKey truncates a time to midnight UTC so lookups ignore the clock part.
func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
