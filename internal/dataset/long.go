package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// Long CSV column headers. These follow the GIOŚ publication language so
// the files line up with the upstream documentation.
const (
	colDatetime = "datetime"
	colCity     = "Miejscowość"
	colStation  = "Kod stacji"
	colPM25     = "PM25"
)

// WriteLongCSV persists measurements in tidy long form, one reading per
// row. Missing readings are written as empty cells.
func WriteLongCSV(path string, measurements []domain.Measurement) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{colDatetime, colCity, colStation, colPM25}); err != nil {
		return apperrors.NewStorageError("failed to write header", err)
	}

	for i, m := range measurements {
		value := ""
		if m.Valid() {
			value = strconv.FormatFloat(m.PM25, 'f', -1, 64)
		}
		record := []string{m.Timestamp.Format(timestampFormat), m.City, m.StationCode, value}
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

// ReadLongCSV loads measurements written by WriteLongCSV. Type detection is
// turned off so empty PM2.5 cells survive as NaN instead of tripping the
// column type.
func ReadLongCSV(path string) ([]domain.Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	if df.Error() != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", path), df.Error())
	}

	idx := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		idx[name] = i
	}
	for _, name := range []string{colDatetime, colCity, colStation, colPM25} {
		if _, ok := idx[name]; !ok {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s is missing column %q", path, name), nil)
		}
	}

	records := df.Records()[1:] // skip header
	measurements := make([]domain.Measurement, 0, len(records))
	for i, record := range records {
		ts, err := time.Parse(timestampFormat, record[idx[colDatetime]])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("bad timestamp in data row %d", i), err)
		}

		value := math.NaN()
		if raw := record[idx[colPM25]]; raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err == nil {
				value = parsed
			}
		}

		measurements = append(measurements, domain.Measurement{
			Timestamp:   ts,
			City:        record[idx[colCity]],
			StationCode: record[idx[colStation]],
			PM25:        value,
		})
	}

	return measurements, nil
}
