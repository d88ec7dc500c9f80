package dwd

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichmann/retrowetter/internal/domain"
)

const testEntryName = "produkt_klima_tag_20200101_20201231_00078.txt"

// measurementText is a Latin-1 KL fragment: padded headers, the -999
// sentinel, the trailing eor marker, and a 0xDF byte ("ß" in ISO 8859-1)
// to prove the decoder runs.
var measurementText = []byte("STATIONS_ID;MESS_DATUM;QN_3; TXK; TNK; TMK; RSK;RSKF;MESSNETZ;eor\n" +
	"         78;20200101;   10;   5.3;  -1.2;   2.0;   0.0;   0;Stra\xdfe;eor\n" +
	"         78;20200102;   10;-999;   0.4;   1.1;   4.2;   1;Stra\xdfe;eor\n")

func buildZip(t *testing.T, entryName string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(entryName)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serveBytes(t *testing.T, data []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write(data) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func descriptorFor(url string) domain.ArchiveDescriptor {
	return domain.ArchiveDescriptor{
		StationID:   "00078",
		PeriodStart: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
		URL:         url,
		EntryName:   testEntryName,
	}
}

func TestLoadRawRows(t *testing.T) {
	srv := serveBytes(t, buildZip(t, testEntryName, measurementText), http.StatusOK)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	rows, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "20200101", rows[0]["MESS_DATUM"])
	assert.Equal(t, "   5.3", rows[0][" TXK"], "cells stay raw, trimming is the normalizer's job")
	assert.Equal(t, "-999", rows[1][" TXK"])
	assert.Equal(t, "Straße", rows[0]["MESSNETZ"], "Latin-1 content decoded to UTF-8")
}

func TestLoadRawRows_FeedsNormalizer(t *testing.T) {
	srv := serveBytes(t, buildZip(t, testEntryName, measurementText), http.StatusOK)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	rows, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	require.NoError(t, err)

	series, err := domain.Normalize("78", rows)
	require.NoError(t, err)
	require.Len(t, series.Rows, 2)
	assert.False(t, series.Rows[1].TempMax.IsValid(), "sentinel reached the absent marker")
}

func TestLoadRawRows_DownloadFailed(t *testing.T) {
	srv := serveBytes(t, []byte("gone"), http.StatusNotFound)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	_, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestLoadRawRows_NotAZip(t *testing.T) {
	srv := serveBytes(t, []byte("this is not a zip container"), http.StatusOK)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	_, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	assert.ErrorIs(t, err, domain.ErrArchiveCorrupt)
}

func TestLoadRawRows_ExpectedEntryMissing(t *testing.T) {
	srv := serveBytes(t, buildZip(t, "Metadaten_Geographie_00078.txt", measurementText), http.StatusOK)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	_, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	assert.ErrorIs(t, err, domain.ErrArchiveCorrupt)
}

func TestLoadRawRows_WrongColumnSet(t *testing.T) {
	content := []byte("STATIONS_ID;SOMETHING_ELSE;eor\n78;1;eor\n")
	srv := serveBytes(t, buildZip(t, testEntryName, content), http.StatusOK)
	c := testClient(t, srv.URL+"/", srv.URL+"/")

	_, err := c.LoadRawRows(context.Background(), descriptorFor(srv.URL+"/archive.zip"))
	assert.ErrorIs(t, err, domain.ErrParseFailed)
}
