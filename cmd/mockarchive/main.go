// Command mockarchive writes a synthetic DWD open-data tree for offline
// development: a station reference table, a directory-listing HTML page, and
// the matching measurement zip archives. Point DWD_DAILY_BASE_URL at a file
// server rooted in the output directory and the full pipeline runs without
// touching the real service.
//
// Usage:
//
//	go run ./cmd/mockarchive -out data/mock -stations 3 -years 5
package main

import (
	"archive/zip"
	"bytes"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const listingHeader = `<html><head><title>Index of /climate/daily/kl/historical/</title></head><body>
<h1>Index of /climate/daily/kl/historical/</h1><hr><pre><a href="../">../</a>
`

func main() {
	out := flag.String("out", "data/mock", "output directory")
	stationCount := flag.Int("stations", 3, "number of synthetic stations")
	years := flag.Int("years", 5, "years of daily data per station")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if err := run(*out, *stationCount, *years, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, stationCount, years int, seed int64) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seed))

	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(-years, 0, 1)
	startStr, endStr := start.Format("20060102"), end.Format("20060102")

	var stationsTable strings.Builder
	stationsTable.WriteString("Stations_id;von_datum;bis_datum;Stationshoehe;geoBreite;geoLaenge;Stationsname;Bundesland\n")

	var listing strings.Builder
	listing.WriteString(listingHeader)

	for i := 0; i < stationCount; i++ {
		id := fmt.Sprintf("%05d", 100+i)
		name := fmt.Sprintf("Teststation %d", i+1)
		fmt.Fprintf(&stationsTable, "%s;%s;%s;%d;%.4f;%.4f;%s;Testland\n",
			id, startStr, endStr, 100+10*i, 48.0+float64(i)*0.5, 9.0+float64(i)*0.5, name)

		archiveName := fmt.Sprintf("tageswerte_KL_%s_%s_%s_hist.zip", id, startStr, endStr)
		fmt.Fprintf(&listing, "<a href=%q>%s</a>    26-Jul-2025 09:56    1M\n", archiveName, archiveName)

		archive, err := buildArchive(rng, id, start, end)
		if err != nil {
			return fmt.Errorf("build archive for %s: %w", id, err)
		}
		if err := os.WriteFile(filepath.Join(out, archiveName), archive, 0o644); err != nil {
			return err
		}
	}

	listing.WriteString("</pre><hr></body></html>\n")

	if err := os.WriteFile(filepath.Join(out, "stations.csv"), []byte(stationsTable.String()), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "index.html"), []byte(listing.String()), 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %d stations with %d years of daily data to %s\n", stationCount, years, out)
	return nil
}

// buildArchive produces a zip with one measurement entry covering every day
// in [start, end]. Temperatures follow a seasonal curve with noise; roughly
// one reading in fifty is replaced by the -999 sentinel so missing-value
// handling gets exercised.
func buildArchive(rng *rand.Rand, stationID string, start, end time.Time) ([]byte, error) {
	var body strings.Builder
	body.WriteString("STATIONS_ID;MESS_DATUM;QN_3;  FX;  FM;QN_4; RSK;RSKF; SDK;SHK_TAG;  NM; VPM;  PM; TMK; UPM; TXK; TNK; TGK;eor\n")

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayOfYear := float64(d.YearDay())
		seasonal := 10 - 12*math.Cos(2*math.Pi*dayOfYear/365)
		mean := seasonal + rng.Float64()*4 - 2
		max := mean + 4 + rng.Float64()*4
		min := mean - 4 - rng.Float64()*4
		rain := 0.0
		rainType := 0
		if rng.Float64() < 0.4 {
			rain = rng.Float64() * 15
			rainType = 1
		}
		cloud := rng.Float64() * 8

		fmt.Fprintf(&body, "%s;%s;   10;%s;%s;    3;%s;   %d;%s;   0;%s;%s;%s;%s;%s;%s;%s;%s;eor\n",
			strings.TrimLeft(stationID, "0"), d.Format("20060102"),
			cell(rng, 12), cell(rng, 5),
			num(rng, rain), rainType, cell(rng, 8),
			num(rng, cloud), cell(rng, 15), cell(rng, 1000),
			num(rng, mean), cell(rng, 90), num(rng, max), num(rng, min), num(rng, min-1))
	}

	entryName := fmt.Sprintf("produkt_klima_tag_%s_%s_%s.txt",
		start.Format("20060102"), end.Format("20060102"), stationID)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(entryName)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// num formats a reading, occasionally substituting the missing sentinel.
func num(rng *rand.Rand, v float64) string {
	if rng.Float64() < 0.02 {
		return " -999"
	}
	return fmt.Sprintf("%6.1f", v)
}

// cell emits a random reading up to limit, with the same sentinel chance.
func cell(rng *rand.Rand, limit float64) string {
	return num(rng, rng.Float64()*limit)
}
