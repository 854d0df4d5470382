package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gioscli/pkg/contracts/domain"
)

func wideFixture() *domain.WideTable {
	return &domain.WideTable{
		Timestamps: []time.Time{
			time.Date(2015, 1, 1, 1, 0, 0, 0, time.UTC),
			time.Date(2015, 1, 1, 23, 59, 59, 110_000_000, time.UTC),
		},
		Columns: []domain.StationColumn{
			{City: "Jelenia Góra", Code: "DsJelGorOgin"},
			{City: "Wrocław", Code: "DsWrocAlWisn"},
		},
		Values: [][]string{
			{"151,112", "78.0"},
			{"262,566", ""},
		},
	}
}

func TestWideCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pm25_hourly_wide.csv")
	in := wideFixture()

	require.NoError(t, WriteWideCSV(path, in))

	out, err := ReadWideCSV(path)
	require.NoError(t, err)

	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.Values, out.Values)
	require.Equal(t, in.NumRows(), out.NumRows())
	for i := range in.Timestamps {
		assert.True(t, in.Timestamps[i].Equal(out.Timestamps[i]),
			"row %d: got %v, want %v", i, out.Timestamps[i], in.Timestamps[i])
	}
}

func TestWriteWideCSV_HeaderRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, WriteWideCSV(path, wideFixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	// First header row carries cities, second the station codes.
	assert.Contains(t, content, "datetime,Jelenia Góra,Wrocław\n")
	assert.Contains(t, content, ",DsJelGorOgin,DsWrocAlWisn\n")
	// Sub-second timestamps keep their fractional part.
	assert.Contains(t, content, "2015-01-01 23:59:59.11")
}

func TestReadWideCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadWideCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	short := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("datetime,A\n"), 0644))
	_, err = ReadWideCSV(short)
	assert.Error(t, err)
}

func TestLongCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pm25_hourly.csv")
	in := []domain.Measurement{
		{Timestamp: time.Date(2015, 1, 1, 1, 0, 0, 0, time.UTC), City: "Jelenia Góra", StationCode: "DsJelGorOgin", PM25: 151.112},
		{Timestamp: time.Date(2015, 1, 1, 1, 0, 0, 0, time.UTC), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: 78},
		{Timestamp: time.Date(2015, 1, 1, 2, 0, 0, 0, time.UTC), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: math.NaN()},
	}

	require.NoError(t, WriteLongCSV(path, in))

	out, err := ReadLongCSV(path)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Jelenia Góra", out[0].City)
	assert.Equal(t, "DsJelGorOgin", out[0].StationCode)
	assert.InDelta(t, 151.112, out[0].PM25, 1e-9)
	assert.InDelta(t, 78, out[1].PM25, 1e-9)

	// A missing reading survives the round trip as NaN.
	assert.False(t, out[2].Valid())
	assert.True(t, out[2].Timestamp.Equal(in[2].Timestamp))
}

func TestWriteLongCSV_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.csv")
	require.NoError(t, WriteLongCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "datetime,Miejscowość,Kod stacji,PM25\n", string(data))
}

func TestReadLongCSV_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("datetime,PM25\n2015-01-01 01:00:00,5\n"), 0644))

	_, err := ReadLongCSV(path)
	assert.Error(t, err)
}
