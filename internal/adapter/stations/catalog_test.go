package stations

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationsTable = `Stations_id;von_datum;bis_datum;Stationshoehe;geoBreite;geoLaenge;Stationsname;Bundesland
44;19690101;20241231;44;52.9336;8.2370;Großenkneten;Niedersachsen
78;19190101;20241231;64;52.4853;7.9126;Alfhausen;Niedersachsen
10961;19510101;20241231;2956;47.4209;10.9847;Zugspitze;Bayern
`

func writeTable(t *testing.T, content string) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewCatalog(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListStations(t *testing.T) {
	catalog := writeTable(t, stationsTable)

	records, err := catalog.ListStations()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Table order preserved, identifiers canonicalized.
	assert.Equal(t, "00044", records[0].ID)
	assert.Equal(t, "Großenkneten", records[0].Name)
	assert.Equal(t, "Niedersachsen", records[0].Region)
	assert.Equal(t, 52.9336, records[0].Latitude)
	assert.Equal(t, 8.2370, records[0].Longitude)

	assert.Equal(t, "00078", records[1].ID)
	assert.Equal(t, "10961", records[2].ID)
}

func TestListStations_MalformedDateIsFatal(t *testing.T) {
	catalog := writeTable(t, `Stations_id;von_datum;bis_datum;Stationshoehe;geoBreite;geoLaenge;Stationsname;Bundesland
78;1919-01-01;20241231;64;52.4853;7.9126;Alfhausen;Niedersachsen
`)

	_, err := catalog.ListStations()
	require.Error(t, err, "the catalog is curated, one bad date fails the load")
}

func TestListStations_MissingColumn(t *testing.T) {
	catalog := writeTable(t, `Stations_id;von_datum;bis_datum;geoBreite;Stationsname;Bundesland
78;19190101;20241231;52.4853;Alfhausen;Niedersachsen
`)

	_, err := catalog.ListStations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geoLaenge")
}

func TestListStations_BadCoordinates(t *testing.T) {
	catalog := writeTable(t, `Stations_id;von_datum;bis_datum;Stationshoehe;geoBreite;geoLaenge;Stationsname;Bundesland
78;19190101;20241231;64;north;7.9126;Alfhausen;Niedersachsen
`)

	_, err := catalog.ListStations()
	require.Error(t, err)
}

func TestListStations_FileMissing(t *testing.T) {
	catalog := NewCatalog(filepath.Join(t.TempDir(), "nope.csv"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := catalog.ListStations()
	require.Error(t, err)
}
