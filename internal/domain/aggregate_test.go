package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tempDay(y int, m time.Month, d int, min, max float64) MeasurementRow {
	return MeasurementRow{Date: date(y, m, d), TempMin: Valid(min), TempMax: Valid(max)}
}

func rainDay(y int, m time.Month, d int, mm Value) MeasurementRow {
	return MeasurementRow{Date: date(y, m, d), Precipitation: mm}
}

func series(rows ...MeasurementRow) NormalizedSeries {
	return NormalizedSeries{StationID: "00078", Rows: rows}
}

func TestYearlyExtremeDayCounts(t *testing.T) {
	s := series(
		tempDay(2020, 7, 1, 21.0, 36.0), // desert + heat + summer + tropical night
		tempDay(2020, 7, 2, 15.0, 31.5), // heat + summer
		tempDay(2020, 7, 3, 12.0, 26.0), // summer only
		tempDay(2021, 7, 1, 8.0, 22.0),  // nothing qualifies
		tempDay(2022, 7, 1, 20.0, 35.0), // thresholds are inclusive
	)

	counts := YearlyExtremeDayCounts(s)
	require.Len(t, counts, 3)

	assert.Equal(t, ExtremeDayCounts{Year: 2020, SummerDays: 3, HeatDays: 2, DesertDays: 1, TropicalNights: 1}, counts[0])
	assert.Equal(t, ExtremeDayCounts{Year: 2021}, counts[1], "quiet year reports zeros, not absence")
	assert.Equal(t, ExtremeDayCounts{Year: 2022, SummerDays: 1, HeatDays: 1, DesertDays: 1, TropicalNights: 1}, counts[2])
}

func TestYearlyExtremeDayCounts_DesertSubsetOfHeat(t *testing.T) {
	s := series(
		tempDay(2020, 6, 1, 10, 30.0),
		tempDay(2020, 6, 2, 10, 34.9),
		tempDay(2020, 6, 3, 10, 35.0),
		tempDay(2020, 6, 4, 10, 41.2),
		tempDay(2021, 6, 1, 10, 36.0),
	)

	for _, c := range YearlyExtremeDayCounts(s) {
		assert.LessOrEqual(t, c.DesertDays, c.HeatDays, "year %d", c.Year)
		assert.LessOrEqual(t, c.HeatDays, c.SummerDays, "year %d", c.Year)
	}
}

func TestYearlyExtremeDayCounts_AbsentReadingsSkipped(t *testing.T) {
	s := series(
		MeasurementRow{Date: date(2020, 7, 1), TempMax: Absent(), TempMin: Absent()},
		tempDay(2020, 7, 2, 21.0, 31.0),
	)

	counts := YearlyExtremeDayCounts(s)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].HeatDays)
	assert.Equal(t, 1, counts[0].TropicalNights)
}

func TestFilterThenAggregate_YearsMatchRange(t *testing.T) {
	s := series(
		tempDay(2018, 7, 1, 10, 31),
		tempDay(2020, 7, 1, 10, 31),
		tempDay(2021, 7, 1, 10, 31),
		tempDay(2023, 7, 1, 10, 31),
	)

	counts := YearlyExtremeDayCounts(s.FilterByYearRange(2019, 2022))
	years := make([]int, len(counts))
	for i, c := range counts {
		years[i] = c.Year
	}
	// Exactly the in-range years that exist in the original series.
	assert.Equal(t, []int{2020, 2021}, years)
}

func TestSameCalendarDayAcrossYears(t *testing.T) {
	s := series(
		MeasurementRow{Date: date(2019, 7, 15), TempMin: Valid(12), TempMean: Valid(18), TempMax: Valid(25)},
		MeasurementRow{Date: date(2020, 7, 15), TempMin: Valid(14), TempMean: Absent(), TempMax: Valid(28)},
		MeasurementRow{Date: date(2020, 7, 16), TempMin: Valid(1), TempMean: Valid(2), TempMax: Valid(3)},
		// 2021 has no July 15 at all.
		MeasurementRow{Date: date(2021, 8, 1), TempMin: Valid(9), TempMean: Valid(13), TempMax: Valid(19)},
	)

	result := SameCalendarDayAcrossYears(s, time.July, 15)
	require.Len(t, result, 2)

	assert.Equal(t, 2019, result[0].Year)
	max, _ := result[0].Max.Float()
	assert.Equal(t, 25.0, max)

	assert.Equal(t, 2020, result[1].Year)
	assert.False(t, result[1].Mean.IsValid(), "absent reading carried through, not zeroed")
}

func TestSameCalendarDayAcrossYears_LeapDay(t *testing.T) {
	s := series(
		tempDay(2019, 2, 28, 1, 5),
		tempDay(2020, 2, 29, 2, 8),
		tempDay(2021, 2, 28, 3, 6),
	)

	result := SameCalendarDayAcrossYears(s, time.February, 29)
	require.Len(t, result, 1, "only the leap year has Feb 29")
	assert.Equal(t, 2020, result[0].Year)
}

func TestYearlyMedianMeanTemperature(t *testing.T) {
	mean := func(y int, m time.Month, d int, v float64) MeasurementRow {
		return MeasurementRow{Date: date(y, m, d), TempMean: Valid(v)}
	}

	s := series(
		mean(2020, 1, 1, 1.0),
		mean(2020, 1, 2, 9.0),
		mean(2020, 1, 3, 3.0), // odd count: median 3.0
		mean(2021, 1, 1, 10.0),
		mean(2021, 1, 2, 20.0), // even count: median 15.0
		// 2022 has rows but no valid means.
		MeasurementRow{Date: date(2022, 1, 1), TempMean: Absent()},
	)

	medians := YearlyMedianMeanTemperature(s)
	require.Len(t, medians, 2, "year without valid readings is excluded")
	assert.Equal(t, YearlyMedian{Year: 2020, Median: 3.0}, medians[0])
	assert.Equal(t, YearlyMedian{Year: 2021, Median: 15.0}, medians[1])
}

func TestMonthlyRainfallAcrossYears(t *testing.T) {
	s := series(
		rainDay(2020, 7, 1, Valid(4.0)),
		rainDay(2020, 7, 2, Valid(6.0)),
		rainDay(2020, 8, 1, Valid(99.0)), // other month, ignored
		rainDay(2021, 7, 1, Absent()),
		rainDay(2021, 7, 2, Absent()), // all absent: reported as 0, not dropped
		rainDay(2022, 7, 1, Valid(25.5)),
	)

	result := MonthlyRainfallAcrossYears(s, time.July)
	require.Len(t, result, 3)
	assert.Equal(t, MonthlyRainfall{Year: 2020, Total: 10.0}, result[0])
	assert.Equal(t, MonthlyRainfall{Year: 2021, Total: 0.0}, result[1])
	assert.Equal(t, MonthlyRainfall{Year: 2022, Total: 25.5}, result[2])
}

func TestDayOverDayDelta(t *testing.T) {
	t.Run("both days present", func(t *testing.T) {
		s := series(
			tempDay(2020, 7, 14, 10, 24),
			tempDay(2020, 7, 15, 12, 30),
		)

		cmp := DayOverDayDelta(s, date(2020, 7, 15))
		require.True(t, cmp.Complete)

		delta, ok := cmp.Delta(func(r MeasurementRow) Value { return r.TempMax }).Float()
		require.True(t, ok)
		assert.Equal(t, 6.0, delta)
	})

	t.Run("previous day missing", func(t *testing.T) {
		s := series(tempDay(2020, 7, 15, 12, 30))

		cmp := DayOverDayDelta(s, date(2020, 7, 15))
		assert.False(t, cmp.Complete, "archive boundary gap yields incomplete, not a crash")
		assert.False(t, cmp.Delta(func(r MeasurementRow) Value { return r.TempMax }).IsValid())
	})

	t.Run("absent field yields absent delta", func(t *testing.T) {
		s := series(
			MeasurementRow{Date: date(2020, 7, 14), SnowDepth: Absent()},
			MeasurementRow{Date: date(2020, 7, 15), SnowDepth: Valid(3)},
		)

		cmp := DayOverDayDelta(s, date(2020, 7, 15))
		require.True(t, cmp.Complete)
		assert.False(t, cmp.Delta(func(r MeasurementRow) Value { return r.SnowDepth }).IsValid())
	})
}
