package exporter

import (
	"math"
	"strconv"
)

// formatValue renders a concentration or mean for CSV output. Missing
// values (NaN) become empty cells.
func formatValue(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an integer for CSV output.
func formatInt(i int) string {
	return strconv.Itoa(i)
}
