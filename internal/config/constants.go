package config

import "fmt"

// YearLayout describes how a given year's hourly PM2.5 sheet is laid out:
// which raw row carries the station codes and which leading rows are
// metadata to drop (indicator name, averaging time, units, and so on).
// GIOŚ changed the layout several times over the years.
type YearLayout struct {
	ArchiveID string
	FileName  string
	HeaderRow int
	DropRows  []int
}

// yearLayouts maps data years to their archive ID and sheet layout.
// The IDs address https://powietrze.gios.gov.pl/pjp/archives/downloadFile/<id>.
var yearLayouts = map[int]YearLayout{
	2015: {ArchiveID: "236", FileName: "2015_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2}},
	2016: {ArchiveID: "242", FileName: "2016_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2}},
	2017: {ArchiveID: "262", FileName: "2017_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2}},
	2018: {ArchiveID: "302", FileName: "2018_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2019: {ArchiveID: "322", FileName: "2019_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2020: {ArchiveID: "370", FileName: "2020_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2021: {ArchiveID: "442", FileName: "2021_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2022: {ArchiveID: "486", FileName: "2022_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2023: {ArchiveID: "524", FileName: "2023_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
	2024: {ArchiveID: "562", FileName: "2024_PM25_1g.xlsx", HeaderRow: 0, DropRows: []int{0, 1, 2, 3, 4, 5}},
}

// LayoutForYear returns the archive layout for a data year.
func LayoutForYear(year int) (YearLayout, error) {
	layout, ok := yearLayouts[year]
	if !ok {
		return YearLayout{}, fmt.Errorf("no archive layout configured for year %d", year)
	}
	return layout, nil
}

// SupportedYears lists the years with a configured archive layout.
func SupportedYears() []int {
	years := make([]int, 0, len(yearLayouts))
	for y := range yearLayouts {
		years = append(years, y)
	}
	return years
}
