package domain

import "strings"

// StationMeta describes one monitoring station from the GIOŚ metadata sheet.
type StationMeta struct {
	Code              string   `json:"code"`
	InternationalCode string   `json:"international_code,omitempty"`
	Name              string   `json:"name,omitempty"`
	City              string   `json:"city"`
	OldCodes          []string `json:"old_codes,omitempty"`
}

// MetaTable is the parsed station metadata table.
type MetaTable struct {
	Stations []StationMeta `json:"stations"`
}

// CityOf returns the city for a station code, or "" when unknown.
func (m *MetaTable) CityOf(code string) string {
	for _, s := range m.Stations {
		if s.Code == code {
			return s.City
		}
	}
	return ""
}

// CurrentCode resolves a possibly outdated station code to the current one.
// Codes that are not listed as anyone's old code come back unchanged.
func (m *MetaTable) CurrentCode(code string) string {
	for _, s := range m.Stations {
		for _, old := range s.OldCodes {
			if old == code {
				return s.Code
			}
		}
	}
	return code
}

// VoivodeshipCode extracts the two-letter voivodeship prefix of a station
// code ("DsWrocAlWisn" -> "Ds").
func VoivodeshipCode(stationCode string) string {
	if len(stationCode) < 2 {
		return stationCode
	}
	return stationCode[:2]
}

// VoivodeshipNames maps the two-letter station-code prefixes used by GIOŚ to
// voivodeship names.
var VoivodeshipNames = map[string]string{
	"Ds": "dolnośląskie",
	"Kp": "kujawsko-pomorskie",
	"Lu": "lubelskie",
	"Lb": "lubuskie",
	"Ld": "łódzkie",
	"Ma": "małopolskie",
	"Mz": "mazowieckie",
	"Op": "opolskie",
	"Pk": "podkarpackie",
	"Pd": "podlaskie",
	"Pm": "pomorskie",
	"Sl": "śląskie",
	"Sk": "świętokrzyskie",
	"Wm": "warmińsko-mazurskie",
	"Wp": "wielkopolskie",
	"Zp": "zachodniopomorskie",
}

// SplitOldCodes parses the metadata sheet's old-code cell, which may list
// several historical codes separated by commas.
func SplitOldCodes(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
