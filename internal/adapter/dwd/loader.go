package dwd

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/wichmann/retrowetter/internal/domain"
)

// LoadRawRows downloads the archive named by the descriptor, opens its
// measurement entry, and tokenizes the semicolon-delimited content into raw
// rows keyed by header name. The entry is ISO 8859-1 encoded; it is decoded
// to UTF-8 before tokenization.
func (c *Client) LoadRawRows(ctx context.Context, desc domain.ArchiveDescriptor) ([]domain.RawRow, error) {
	data, err := c.downloadArchive(ctx, desc.URL)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveCorrupt, err)
	}

	entry, err := zr.Open(desc.EntryName)
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s not found in %s", domain.ErrArchiveCorrupt, desc.EntryName, desc.URL)
	}
	defer entry.Close()

	rows, err := parseMeasurementEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", desc.EntryName, err)
	}

	c.metrics.RowsParsed.Add(float64(len(rows)))
	c.logger.Debug("archive loaded", "station", desc.StationID, "rows", len(rows), "entry", desc.EntryName)
	return rows, nil
}

// downloadArchive fetches the archive bytes into memory. Archives for
// long-running stations are a few megabytes, small enough to buffer.
func (c *Client) downloadArchive(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create archive request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ArchiveDownloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ArchiveDownloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrDownloadFailed, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ArchiveDownloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	c.metrics.ArchiveDownloads.WithLabelValues("success").Inc()
	c.metrics.FetchDuration.WithLabelValues("archive").Observe(time.Since(start).Seconds())
	return data, nil
}

// parseMeasurementEntry reads the Latin-1 text entry as semicolon-delimited
// records. The first line is the header; each following line becomes a
// RawRow keyed by the header cells as published (still whitespace-padded,
// the normalizer trims them).
func parseMeasurementEntry(entry io.Reader) ([]domain.RawRow, error) {
	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(entry))
	r.Comma = ';'
	r.FieldsPerRecord = -1 // lines carry a trailing "eor" marker; tolerate ragged widths

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrParseFailed, err)
	}
	if !headerHasDateColumn(header) {
		return nil, fmt.Errorf("%w: header lacks %s column", domain.ErrParseFailed, domain.ColumnDate)
	}

	var rows []domain.RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrParseFailed, len(rows)+2, err)
		}

		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func headerHasDateColumn(header []string) bool {
	for _, col := range header {
		if strings.TrimSpace(col) == domain.ColumnDate {
			return true
		}
	}
	return false
}
