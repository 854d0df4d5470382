package stats

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gioscli/pkg/contracts/domain"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func longFixture() []domain.Measurement {
	return []domain.Measurement{
		{Timestamp: ts("2015-01-01 01:00:00"), City: "Jelenia Góra", StationCode: "DsJelGorOgin", PM25: 151.112},
		{Timestamp: ts("2015-01-01 01:00:00"), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: 78.0},
		{Timestamp: ts("2015-01-01 01:00:00"), City: "Wrocław", StationCode: "DsWrocWybCon", PM25: 50.0},
		{Timestamp: ts("2015-01-01 02:00:00"), City: "Jelenia Góra", StationCode: "DsJelGorOgin", PM25: 262.566},
		{Timestamp: ts("2015-01-01 02:00:00"), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: 42.0},
		{Timestamp: ts("2015-01-01 02:00:00"), City: "Wrocław", StationCode: "DsWrocWybCon", PM25: 33.8244},
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "151.112", want: 151.112},
		{name: "decimal comma", input: "151,112", want: 151.112},
		{name: "padded comma", input: " 151,112 ", want: 151.112},
		{name: "integer", input: "78", want: 78},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseValue(tt.input), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(ParseValue("")))
	assert.True(t, math.IsNaN(ParseValue("n/d")))
}

func TestConvertWide(t *testing.T) {
	table := &domain.WideTable{
		Timestamps: []time.Time{ts("2015-01-01 01:00:00")},
		Columns: []domain.StationColumn{
			{City: "Jelenia Góra", Code: "DsJelGorOgin"},
			{City: "Wrocław", Code: "DsWrocAlWisn"},
			{City: "Wrocław", Code: "DsWrocWybCon"},
		},
		Values: [][]string{{" 151,112 ", "78.0", ""}},
	}

	a := NewAggregator(slog.Default())
	out := a.ConvertWide(table)
	require.Len(t, out, 3)

	assert.Equal(t, "Jelenia Góra", out[0].City)
	assert.Equal(t, "DsJelGorOgin", out[0].StationCode)
	assert.InDelta(t, 151.112, out[0].PM25, 1e-9)
	assert.InDelta(t, 78.0, out[1].PM25, 1e-9)
	assert.False(t, out[2].Valid())
}

func TestMonthlyMeans(t *testing.T) {
	a := NewAggregator(slog.Default())
	out := a.MonthlyMeans(longFixture())

	require.Len(t, out, 3)
	assert.Equal(t, domain.MonthlyMean{
		Year: 2015, Month: 1, City: "Jelenia Góra", Station: "DsJelGorOgin",
		Mean: (151.112 + 262.566) / 2,
	}, out[0])
	assert.InDelta(t, (78.0+42.0)/2, out[1].Mean, 1e-9)
	assert.Equal(t, "DsWrocAlWisn", out[1].Station)
	assert.InDelta(t, (50.0+33.8244)/2, out[2].Mean, 1e-9)
}

func TestMonthlyMeans_SkipsMissing(t *testing.T) {
	a := NewAggregator(slog.Default())
	out := a.MonthlyMeans([]domain.Measurement{
		{Timestamp: ts("2015-01-01 01:00:00"), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: 10},
		{Timestamp: ts("2015-01-01 02:00:00"), City: "Wrocław", StationCode: "DsWrocAlWisn", PM25: math.NaN()},
		{Timestamp: ts("2015-01-01 01:00:00"), City: "Białka", StationCode: "DsBialka", PM25: math.NaN()},
	})

	require.Len(t, out, 2)
	// A group with no usable readings keeps NaN.
	assert.Equal(t, "DsBialka", out[0].Station)
	assert.True(t, math.IsNaN(out[0].Mean))
	// Missing readings are excluded from the mean, not counted as zero.
	assert.InDelta(t, 10, out[1].Mean, 1e-9)
}

func TestMonthlyCityMeans(t *testing.T) {
	a := NewAggregator(slog.Default())
	monthly := []domain.MonthlyMean{
		{Year: 2015, Month: 1, City: "Jelenia Góra", Station: "DsJelGorOgin", Mean: (151.112 + 262.566) / 2},
		{Year: 2015, Month: 1, City: "Wrocław", Station: "DsWrocAlWisn", Mean: (78.0 + 42.0) / 2},
		{Year: 2015, Month: 1, City: "Wrocław", Station: "DsWrocWybCon", Mean: (50.0 + 33.8244) / 2},
	}

	out := a.MonthlyCityMeans(monthly)
	require.Len(t, out, 2)

	assert.Equal(t, "Jelenia Góra", out[0].City)
	assert.InDelta(t, (151.112+262.566)/2, out[0].Mean, 1e-4)

	// The city mean averages station means, not raw readings.
	assert.Equal(t, "Wrocław", out[1].City)
	assert.InDelta(t, ((78.0+42.0)/2+(50.0+33.8244)/2)/2, out[1].Mean, 1e-4)
}

func TestDailyMeans(t *testing.T) {
	a := NewAggregator(slog.Default())
	out := a.DailyMeans(longFixture())

	require.Len(t, out, 3)
	day := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.DailyMean{
		Year: 2015, Date: day, City: "Jelenia Góra", Station: "DsJelGorOgin",
		Mean: (151.112 + 262.566) / 2,
	}, out[0])
	assert.InDelta(t, (78.0+42.0)/2, out[1].Mean, 1e-9)
	assert.InDelta(t, (50.0+33.8244)/2, out[2].Mean, 1e-9)
}

func dailyFixture() []domain.DailyMean {
	d1 := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	return []domain.DailyMean{
		{Year: 2015, Date: d1, City: "Jelenia Góra", Station: "DsJelGorOgin", Mean: 82.2864},
		{Year: 2015, Date: d2, City: "Jelenia Góra", Station: "DsJelGorOgin", Mean: 20.026298},
		{Year: 2015, Date: d1, City: "Wrocław", Station: "DsWrocAlWisn", Mean: 44.958333},
		{Year: 2015, Date: d2, City: "Wrocław", Station: "DsWrocAlWisn", Mean: 9.73913},
		{Year: 2015, Date: d1, City: "Wrocław", Station: "DsWrocWybCon", Mean: 6.594062},
		{Year: 2015, Date: d2, City: "Wrocław", Station: "DsWrocWybCon", Mean: 5.240792},
	}
}

func TestCountExceedanceDays(t *testing.T) {
	a := NewAggregator(slog.Default())
	out := a.CountExceedanceDays(dailyFixture(), 15)

	require.Len(t, out, 2)
	assert.Equal(t, domain.ExceedanceCount{Year: 2015, Station: "DsJelGorOgin", Days: 2}, out[0])
	assert.Equal(t, domain.ExceedanceCount{Year: 2015, Station: "DsWrocAlWisn", Days: 1}, out[1])
}

func TestCountExceedanceDays_StrictComparison(t *testing.T) {
	a := NewAggregator(slog.Default())
	d1 := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	daily := []domain.DailyMean{
		{Year: 2015, Date: d1, Station: "DsWrocAlWisn", Mean: 15.0},
		{Year: 2015, Date: d1, Station: "DsBialka", Mean: math.NaN()},
	}

	// A mean exactly at the threshold is not an exceedance; NaN never is.
	out := a.CountExceedanceDays(daily, 15)
	assert.Empty(t, out)
}

func TestTopBottomStations(t *testing.T) {
	counts := []domain.ExceedanceCount{
		{Year: 2015, Station: "DsJelGorOgin", Days: 100},
		{Year: 2015, Station: "DsWrocAlWisn", Days: 80},
		{Year: 2015, Station: "DsWrocWybCon", Days: 10},
		{Year: 2015, Station: "KpBydPlPozna", Days: 20},
		{Year: 2018, Station: "DsJelGorOgin", Days: 999},
	}

	a := NewAggregator(slog.Default())
	out := a.TopBottomStations(counts, 2015, 2)

	require.Len(t, out, 4)
	assert.Equal(t, "DsJelGorOgin", out[0].Station)
	assert.Equal(t, 100, out[0].Days)
	assert.Equal(t, "DsWrocAlWisn", out[1].Station)
	assert.Equal(t, "DsWrocWybCon", out[2].Station)
	assert.Equal(t, "KpBydPlPozna", out[3].Station)
}

func TestTopBottomStations_ShortList(t *testing.T) {
	counts := []domain.ExceedanceCount{
		{Year: 2015, Station: "DsJelGorOgin", Days: 100},
	}

	a := NewAggregator(slog.Default())
	out := a.TopBottomStations(counts, 2015, 3)

	// One station ends up in both halves.
	require.Len(t, out, 2)
	assert.Equal(t, out[0], out[1])

	assert.Empty(t, a.TopBottomStations(counts, 2020, 3))
}

func TestVoivodeshipExceedances(t *testing.T) {
	a := NewAggregator(slog.Default())

	measurements := []domain.Measurement{
		// Dolnośląskie: station means on Jan 1 are 100 and 10, so the
		// voivodeship mean is 55 and the day counts.
		{Timestamp: ts("2015-01-01 01:00:00"), StationCode: "DsJelGorOgin", PM25: 100},
		{Timestamp: ts("2015-01-01 02:00:00"), StationCode: "DsWrocAlWisn", PM25: 10},
		// Jan 2 stays below the threshold.
		{Timestamp: ts("2015-01-02 01:00:00"), StationCode: "DsJelGorOgin", PM25: 12},
		// Kujawsko-pomorskie exceeds on both days.
		{Timestamp: ts("2015-01-01 01:00:00"), StationCode: "KpBydPlPozna", PM25: 40},
		{Timestamp: ts("2015-01-02 01:00:00"), StationCode: "KpBydPlPozna", PM25: 30},
	}

	out := a.VoivodeshipExceedances(measurements, domain.VoivodeshipNames, 15)

	require.Len(t, out, 2)
	// Sorted by descending day count.
	assert.Equal(t, domain.VoivodeshipCount{Voivodeship: "kujawsko-pomorskie", Days: 2}, out[0])
	assert.Equal(t, domain.VoivodeshipCount{Voivodeship: "dolnośląskie", Days: 1}, out[1])
}

func TestVoivodeshipExceedances_StationWeighting(t *testing.T) {
	a := NewAggregator(slog.Default())

	// Many low readings at one station must not outweigh the other
	// station's single high daily mean.
	measurements := []domain.Measurement{
		{Timestamp: ts("2015-01-01 01:00:00"), StationCode: "DsWrocAlWisn", PM25: 1},
		{Timestamp: ts("2015-01-01 02:00:00"), StationCode: "DsWrocAlWisn", PM25: 1},
		{Timestamp: ts("2015-01-01 03:00:00"), StationCode: "DsWrocAlWisn", PM25: 1},
		{Timestamp: ts("2015-01-01 01:00:00"), StationCode: "DsJelGorOgin", PM25: 31},
	}

	out := a.VoivodeshipExceedances(measurements, domain.VoivodeshipNames, 15)
	require.Len(t, out, 1)
	// (1 + 31) / 2 = 16 > 15.
	assert.Equal(t, 1, out[0].Days)
}
