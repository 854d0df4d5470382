package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// timestampFormat renders hourly timestamps; the fractional part is
// emitted only when present so round-trips keep sub-second precision.
const timestampFormat = "2006-01-02 15:04:05.999999999"

// WriteWideCSV persists the hourly wide table with a two-row header:
// the first row carries city names, the second station codes. This keeps
// the city/station pairing in the file itself.
func WriteWideCSV(path string, table *domain.WideTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	cities := make([]string, 0, table.NumStations()+1)
	codes := make([]string, 0, table.NumStations()+1)
	cities = append(cities, "datetime")
	codes = append(codes, "")
	for _, col := range table.Columns {
		cities = append(cities, col.City)
		codes = append(codes, col.Code)
	}
	if err := w.Write(cities); err != nil {
		return apperrors.NewStorageError("failed to write header", err)
	}
	if err := w.Write(codes); err != nil {
		return apperrors.NewStorageError("failed to write header", err)
	}

	record := make([]string, table.NumStations()+1)
	for i, ts := range table.Timestamps {
		record[0] = ts.Format(timestampFormat)
		copy(record[1:], table.Values[i])
		if err := w.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	return nil
}

// ReadWideCSV loads a wide table written by WriteWideCSV.
func ReadWideCSV(path string) (*domain.WideTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
	}
	if len(records) < 2 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s is missing the two header rows", path), nil)
	}

	cities, codes := records[0], records[1]
	if len(cities) < 2 || len(codes) != len(cities) {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has malformed headers", path), nil)
	}

	table := &domain.WideTable{}
	for i := 1; i < len(codes); i++ {
		table.Columns = append(table.Columns, domain.StationColumn{
			City: cities[i],
			Code: codes[i],
		})
	}

	for i, record := range records[2:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		ts, err := time.Parse(timestampFormat, record[0])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("bad timestamp in data row %d", i), err)
		}
		values := make([]string, table.NumStations())
		for j := range values {
			if j+1 < len(record) {
				values[j] = record[j+1]
			}
		}
		table.Timestamps = append(table.Timestamps, ts)
		table.Values = append(table.Values, values)
	}

	return table, nil
}
