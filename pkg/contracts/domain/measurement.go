package domain

import (
	"math"
	"time"
)

// Measurement is a single hourly PM2.5 reading in long (tidy) form.
// PM25 is NaN when the source cell was empty or unparseable.
type Measurement struct {
	Timestamp   time.Time `json:"datetime"`
	City        string    `json:"city"`
	StationCode string    `json:"station_code"`
	PM25        float64   `json:"pm25"`
}

// Valid reports whether the measurement carries a usable concentration value.
func (m Measurement) Valid() bool {
	return !math.IsNaN(m.PM25)
}

// StationColumn identifies one station column of the wide hourly table.
// City is empty until metadata has been joined in.
type StationColumn struct {
	City string `json:"city"`
	Code string `json:"code"`
}

// WideTable is the hourly PM2.5 table as published by GIOŚ: one timestamp
// column plus one column per station. Cell values stay raw strings (decimal
// commas, padding) until conversion to long form.
type WideTable struct {
	Timestamps []time.Time     `json:"timestamps"`
	Columns    []StationColumn `json:"columns"`
	Values     [][]string      `json:"values"` // Values[row][col], aligned with Columns
}

// NumRows returns the number of hourly rows in the table.
func (t *WideTable) NumRows() int {
	return len(t.Timestamps)
}

// NumStations returns the number of station columns.
func (t *WideTable) NumStations() int {
	return len(t.Columns)
}

// Clone returns a deep copy of the table. Pipeline transforms operate on
// clones so callers keep their inputs unchanged.
func (t *WideTable) Clone() *WideTable {
	out := &WideTable{
		Timestamps: make([]time.Time, len(t.Timestamps)),
		Columns:    make([]StationColumn, len(t.Columns)),
		Values:     make([][]string, len(t.Values)),
	}
	copy(out.Timestamps, t.Timestamps)
	copy(out.Columns, t.Columns)
	for i, row := range t.Values {
		out.Values[i] = make([]string, len(row))
		copy(out.Values[i], row)
	}
	return out
}
