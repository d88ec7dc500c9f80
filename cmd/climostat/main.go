// Command climostat runs the full ingestion pipeline for one station and
// prints its yearly statistics as CSV. It is the operator-facing way to spot
// check what the dashboard will render.
//
// Usage:
//
//	go run ./cmd/climostat -station 78 -from 1990 -to 2020 -month 7 -day 15
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/wichmann/retrowetter/internal/adapter/dwd"
	"github.com/wichmann/retrowetter/internal/adapter/stations"
	"github.com/wichmann/retrowetter/internal/config"
	"github.com/wichmann/retrowetter/internal/domain"
	"github.com/wichmann/retrowetter/internal/observability"
	"github.com/wichmann/retrowetter/internal/provider"
)

func main() {
	station := flag.String("station", "", "station identifier (e.g. 78 or 00078)")
	fromYear := flag.Int("from", 0, "first year of the range (0 = series start)")
	toYear := flag.Int("to", 9999, "last year of the range")
	month := flag.Int("month", 7, "month for rainfall and same-day statistics")
	day := flag.Int("day", 15, "day of month for same-day statistics")
	flag.Parse()

	if *station == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*station, *fromYear, *toYear, *month, *day); code != 0 {
		os.Exit(code)
	}
}

func run(station string, fromYear, toYear, month, day int) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	catalog := stations.NewCatalog(cfg.StationsFile, logger)
	client := dwd.NewClient(cfg.DailyBaseURL, cfg.MonthlyBaseURL, cfg.FetchTimeout, metrics, logger)
	p := provider.New(catalog, client, client, logger, metrics, provider.Options{})

	ctx := context.Background()

	series, found, err := p.ResolveAndLoad(ctx, station)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load station %s: %v\n", station, err)
		return 1
	}
	if !found {
		fmt.Fprintf(os.Stderr, "no archive published for station %s\n", station)
		return 1
	}

	series = series.FilterByYearRange(fromYear, toYear)
	if len(series.Rows) == 0 {
		fmt.Fprintf(os.Stderr, "no rows in year range %d-%d\n", fromYear, toYear)
		return 1
	}

	printExtremeDays(os.Stdout, series)
	printYearlyMedians(os.Stdout, series)
	printMonthlyRainfall(os.Stdout, series, time.Month(month))
	printSameDay(os.Stdout, series, time.Month(month), day)
	return 0
}

func printExtremeDays(w io.Writer, series domain.NormalizedSeries) {
	fmt.Fprintf(w, "# extreme days per year (station %s)\n", series.StationID)
	cw := csv.NewWriter(w)
	cw.Write([]string{"year", "summer_days", "heat_days", "desert_days", "tropical_nights"}) //nolint:errcheck
	for _, c := range domain.YearlyExtremeDayCounts(series) {
		cw.Write([]string{ //nolint:errcheck
			strconv.Itoa(c.Year),
			strconv.Itoa(c.SummerDays),
			strconv.Itoa(c.HeatDays),
			strconv.Itoa(c.DesertDays),
			strconv.Itoa(c.TropicalNights),
		})
	}
	cw.Flush()
	fmt.Fprintln(w)
}

func printYearlyMedians(w io.Writer, series domain.NormalizedSeries) {
	fmt.Fprintln(w, "# yearly median of daily mean temperature")
	cw := csv.NewWriter(w)
	cw.Write([]string{"year", "median_temp_c"}) //nolint:errcheck
	for _, m := range domain.YearlyMedianMeanTemperature(series) {
		cw.Write([]string{strconv.Itoa(m.Year), formatFloat(m.Median)}) //nolint:errcheck
	}
	cw.Flush()
	fmt.Fprintln(w)
}

func printMonthlyRainfall(w io.Writer, series domain.NormalizedSeries, month time.Month) {
	fmt.Fprintf(w, "# rainfall sum for %s per year\n", month)
	cw := csv.NewWriter(w)
	cw.Write([]string{"year", "rainfall_mm"}) //nolint:errcheck
	for _, r := range domain.MonthlyRainfallAcrossYears(series, month) {
		cw.Write([]string{strconv.Itoa(r.Year), formatFloat(r.Total)}) //nolint:errcheck
	}
	cw.Flush()
	fmt.Fprintln(w)
}

func printSameDay(w io.Writer, series domain.NormalizedSeries, month time.Month, day int) {
	fmt.Fprintf(w, "# temperatures on %02d-%02d across years\n", int(month), day)
	cw := csv.NewWriter(w)
	cw.Write([]string{"year", "min_c", "mean_c", "max_c"}) //nolint:errcheck
	for _, d := range domain.SameCalendarDayAcrossYears(series, month, day) {
		cw.Write([]string{ //nolint:errcheck
			strconv.Itoa(d.Year),
			formatValue(d.Min),
			formatValue(d.Mean),
			formatValue(d.Max),
		})
	}
	cw.Flush()
	fmt.Fprintln(w)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// formatValue renders an absent reading as an empty cell.
func formatValue(v domain.Value) string {
	f, ok := v.Float()
	if !ok {
		return ""
	}
	return formatFloat(f)
}
