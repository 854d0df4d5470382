package gios

import (
	"strings"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// Metadata sheet column headers as published by GIOŚ. The old-code header
// wraps across lines in the sheet, so it is matched by prefix.
const (
	metaColCode          = "kod stacji"
	metaColInternational = "kod międzynarodowy"
	metaColName          = "nazwa stacji"
	metaColCity          = "miejscowość"
	metaColOldCodes      = "stary kod stacji"
)

// ParseMeta extracts the station table from the raw rows of the metadata
// workbook. Column positions are mapped from the header row by name; the
// sheet gained and lost columns over the years so fixed indices are not
// reliable.
func ParseMeta(rows [][]string) (*domain.MetaTable, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("metadata workbook is empty", nil)
	}

	headerRow, columns := findMetaHeader(rows)
	if headerRow < 0 {
		return nil, apperrors.NewParsingError("could not find header row in station metadata", nil)
	}
	codeIdx, ok := columns[metaColCode]
	if !ok {
		return nil, apperrors.NewParsingError("station metadata is missing the station code column", nil)
	}

	cell := func(row []string, key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	meta := &domain.MetaTable{}
	for _, row := range rows[headerRow+1:] {
		if codeIdx >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeIdx])
		if code == "" {
			continue
		}
		meta.Stations = append(meta.Stations, domain.StationMeta{
			Code:              code,
			InternationalCode: cell(row, metaColInternational),
			Name:              cell(row, metaColName),
			City:              cell(row, metaColCity),
			OldCodes:          domain.SplitOldCodes(cell(row, metaColOldCodes)),
		})
	}

	if len(meta.Stations) == 0 {
		return nil, apperrors.NewParsingError("station metadata contains no stations", nil)
	}
	return meta, nil
}

// findMetaHeader locates the header row and maps column names to indices.
func findMetaHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		columns := make(map[string]int)
		for j, header := range row {
			h := strings.ToLower(strings.TrimSpace(header))
			switch {
			case h == metaColCode:
				columns[metaColCode] = j
			case h == metaColInternational:
				columns[metaColInternational] = j
			case h == metaColName:
				columns[metaColName] = j
			case h == metaColCity:
				columns[metaColCity] = j
			case strings.HasPrefix(h, metaColOldCodes):
				columns[metaColOldCodes] = j
			}
		}
		if _, ok := columns[metaColCode]; ok && len(columns) >= 2 {
			return i, columns
		}
	}
	return -1, nil
}
