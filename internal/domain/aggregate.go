package domain

import (
	"sort"
	"time"
)

// Temperature thresholds (°C) for the yearly extreme-day counts, following
// the DWD climatological day definitions.
const (
	SummerDayThreshold     = 25.0 // daily maximum
	HeatDayThreshold       = 30.0 // daily maximum
	DesertDayThreshold     = 35.0 // daily maximum
	TropicalNightThreshold = 20.0 // daily minimum
)

// ExtremeDayCounts holds the qualifying-day counts for one calendar year.
// Desert days are a subset of heat days, which are a subset of summer days.
type ExtremeDayCounts struct {
	Year           int
	SummerDays     int
	HeatDays       int
	DesertDays     int
	TropicalNights int
}

// YearlyExtremeDayCounts counts summer days, heat days, desert days, and
// tropical nights for every calendar year present in the series. Years with
// zero qualifying days still appear with zero counts. Result is ascending
// by year.
func YearlyExtremeDayCounts(s NormalizedSeries) []ExtremeDayCounts {
	byYear := make(map[int]*ExtremeDayCounts)
	for _, row := range s.Rows {
		y := row.Date.Year()
		counts, ok := byYear[y]
		if !ok {
			counts = &ExtremeDayCounts{Year: y}
			byYear[y] = counts
		}
		if max, ok := row.TempMax.Float(); ok {
			if max >= SummerDayThreshold {
				counts.SummerDays++
			}
			if max >= HeatDayThreshold {
				counts.HeatDays++
			}
			if max >= DesertDayThreshold {
				counts.DesertDays++
			}
		}
		if min, ok := row.TempMin.Float(); ok && min >= TropicalNightThreshold {
			counts.TropicalNights++
		}
	}
	return sortedByYear(byYear)
}

// DayTemperatures holds the temperatures observed on one specific calendar
// day of one year.
type DayTemperatures struct {
	Year int
	Min  Value
	Mean Value
	Max  Value
}

// SameCalendarDayAcrossYears returns the min/mean/max temperature recorded
// on the given month/day for every year that has that date. Years lacking it
// (Feb 29 outside leap years, archive gaps) are absent from the result.
func SameCalendarDayAcrossYears(s NormalizedSeries, month time.Month, day int) []DayTemperatures {
	var out []DayTemperatures
	for _, row := range s.Rows {
		if row.Date.Month() != month || row.Date.Day() != day {
			continue
		}
		out = append(out, DayTemperatures{
			Year: row.Date.Year(),
			Min:  row.TempMin,
			Mean: row.TempMean,
			Max:  row.TempMax,
		})
	}
	return out
}

// YearlyMedian is the median daily mean temperature for one year.
type YearlyMedian struct {
	Year   int
	Median float64
}

// YearlyMedianMeanTemperature computes the median of the daily mean
// temperature per calendar year. Years with no valid readings are excluded
// rather than reported as zero. Result is ascending by year.
func YearlyMedianMeanTemperature(s NormalizedSeries) []YearlyMedian {
	byYear := make(map[int][]float64)
	for _, row := range s.Rows {
		if mean, ok := row.TempMean.Float(); ok {
			y := row.Date.Year()
			byYear[y] = append(byYear[y], mean)
		}
	}

	out := make([]YearlyMedian, 0, len(byYear))
	for year, values := range byYear {
		out = append(out, YearlyMedian{Year: year, Median: median(values)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MonthlyRainfall is the precipitation total for one month of one year.
type MonthlyRainfall struct {
	Year  int
	Total float64
}

// MonthlyRainfallAcrossYears sums the precipitation height over days in the
// given month for every year present in the series. Absent readings
// contribute zero to the sum, so a month of entirely missing data reports
// 0.0 rather than being dropped. Result is ascending by year.
func MonthlyRainfallAcrossYears(s NormalizedSeries, month time.Month) []MonthlyRainfall {
	totals := make(map[int]float64)
	for _, row := range s.Rows {
		y := row.Date.Year()
		if _, ok := totals[y]; !ok {
			totals[y] = 0
		}
		if row.Date.Month() != month {
			continue
		}
		if mm, ok := row.Precipitation.Float(); ok {
			totals[y] += mm
		}
	}

	out := make([]MonthlyRainfall, 0, len(totals))
	for year, total := range totals {
		out = append(out, MonthlyRainfall{Year: year, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// DayComparison pairs one day's row with the previous day's row. Complete is
// false when either day is missing from the series, which is common near
// archive boundaries.
type DayComparison struct {
	Day      MeasurementRow
	Previous MeasurementRow
	Complete bool
}

// Delta applies a field selector to both days and returns day minus
// previous. Absent when the comparison is incomplete or either reading is
// absent.
func (c DayComparison) Delta(field func(MeasurementRow) Value) Value {
	if !c.Complete {
		return Absent()
	}
	return field(c.Day).Sub(field(c.Previous))
}

// DayOverDayDelta pairs the rows for date and date minus one day. It never
// fails: a gap on either side yields an incomplete comparison.
func DayOverDayDelta(s NormalizedSeries, date time.Time) DayComparison {
	day, okDay := s.RowAt(date)
	prev, okPrev := s.RowAt(date.AddDate(0, 0, -1))
	return DayComparison{
		Day:      day,
		Previous: prev,
		Complete: okDay && okPrev,
	}
}

func sortedByYear(byYear map[int]*ExtremeDayCounts) []ExtremeDayCounts {
	out := make([]ExtremeDayCounts, 0, len(byYear))
	for _, counts := range byYear {
		out = append(out, *counts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// median of an unordered non-empty slice. Even-length input averages the two
// middle values. The input slice is reordered.
func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
