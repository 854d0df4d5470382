package gios

import (
	"fmt"
	"strings"
	"time"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// timestampLayouts are the timestamp spellings seen across the yearly
// sheets. Fractional seconds appear in some exports.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// ParseTimestamp parses a timestamp cell from an hourly sheet.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// CleanHourly turns the raw workbook rows of one year into a wide table:
// station codes come from headerRow, the rows listed in dropRows (indicator
// name, averaging time and other sheet metadata) are discarded, and the
// first column becomes the timestamp. The input is not modified.
func CleanHourly(raw [][]string, headerRow int, dropRows []int) (*domain.WideTable, error) {
	if headerRow >= len(raw) {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("header row %d out of range (%d rows)", headerRow, len(raw)), nil)
	}

	header := raw[headerRow]
	if len(header) < 2 {
		return nil, apperrors.NewParsingError("header row has no station columns", nil)
	}

	columns := make([]domain.StationColumn, 0, len(header)-1)
	for _, code := range header[1:] {
		columns = append(columns, domain.StationColumn{Code: strings.TrimSpace(code)})
	}

	drop := make(map[int]bool, len(dropRows))
	for _, i := range dropRows {
		drop[i] = true
	}

	table := &domain.WideTable{Columns: columns}
	for i, row := range raw {
		if drop[i] {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		ts, err := ParseTimestamp(row[0])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("bad timestamp in row %d", i), err)
		}

		values := make([]string, len(columns))
		for j := range columns {
			if j+1 < len(row) {
				values[j] = row[j+1]
			}
		}

		table.Timestamps = append(table.Timestamps, ts)
		table.Values = append(table.Values, values)
	}

	return table, nil
}

// RollMidnight shifts timestamps at exactly 00:00:00 back by one second.
// GIOŚ stamps the last hour of a day as midnight of the next day; rolling
// it back keeps daily aggregation on the correct calendar day. Sub-second
// parts are preserved. The input is not modified.
func RollMidnight(t *domain.WideTable) *domain.WideTable {
	out := t.Clone()
	for i, ts := range out.Timestamps {
		if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
			out.Timestamps[i] = ts.Add(-time.Second)
		}
	}
	return out
}

// UpdateStations renames columns whose code appears among a station's old
// codes to the current code. The input is not modified.
func UpdateStations(t *domain.WideTable, meta *domain.MetaTable) *domain.WideTable {
	out := t.Clone()
	for i, col := range out.Columns {
		out.Columns[i].Code = meta.CurrentCode(col.Code)
	}
	return out
}

// AssignCities attaches each station column's city from the metadata.
// Stations absent from the metadata keep an empty city. The input is not
// modified.
func AssignCities(t *domain.WideTable, meta *domain.MetaTable) *domain.WideTable {
	out := t.Clone()
	for i, col := range out.Columns {
		out.Columns[i].City = meta.CityOf(col.Code)
	}
	return out
}

// ConcatYears appends yearly tables into one table over the union of their
// station columns. Column order follows first appearance; rows keep their
// per-year order. Cells for stations missing in a given year stay empty.
func ConcatYears(tables []*domain.WideTable) *domain.WideTable {
	out := &domain.WideTable{}
	colIndex := make(map[string]int)

	for _, t := range tables {
		for _, col := range t.Columns {
			if _, ok := colIndex[col.Code]; !ok {
				colIndex[col.Code] = len(out.Columns)
				out.Columns = append(out.Columns, col)
			}
		}
	}

	for _, t := range tables {
		for i, ts := range t.Timestamps {
			values := make([]string, len(out.Columns))
			for j, col := range t.Columns {
				values[colIndex[col.Code]] = t.Values[i][j]
			}
			out.Timestamps = append(out.Timestamps, ts)
			out.Values = append(out.Values, values)
		}
	}

	return out
}
