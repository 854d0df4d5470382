package stats

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gioscli/internal/infrastructure"
	"gioscli/pkg/contracts/domain"
)

// Aggregator computes the aggregate statistics of the analysis stage from
// long-form measurements. Means skip missing readings; a group with no
// usable reading keeps NaN so the gap stays visible downstream.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Aggregator{logger: logger}
}

// ParseValue converts a raw cell into a concentration value. Cells are
// trimmed and decimal commas converted before parsing; anything that still
// fails to parse becomes NaN.
func ParseValue(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ConvertWide reshapes the wide hourly table into long form, one measurement
// per timestamp and station. The input table is not modified.
func (a *Aggregator) ConvertWide(table *domain.WideTable) []domain.Measurement {
	out := make([]domain.Measurement, 0, table.NumRows()*table.NumStations())
	for i, ts := range table.Timestamps {
		for j, col := range table.Columns {
			out = append(out, domain.Measurement{
				Timestamp:   ts,
				City:        col.City,
				StationCode: col.Code,
				PM25:        ParseValue(table.Values[i][j]),
			})
		}
	}

	a.logger.Debug("wide table converted to long form",
		slog.Int("rows", table.NumRows()),
		slog.Int("stations", table.NumStations()),
		slog.Int("measurements", len(out)))

	return out
}

// meanAcc accumulates a mean over the non-NaN values of a group.
type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.count++
}

func (m *meanAcc) mean() float64 {
	if m.count == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.count)
}

type monthlyKey struct {
	year    int
	month   int
	city    string
	station string
}

// MonthlyMeans computes the mean concentration per station and calendar
// month, sorted by year, month, city and station code.
func (a *Aggregator) MonthlyMeans(measurements []domain.Measurement) []domain.MonthlyMean {
	groups := make(map[monthlyKey]*meanAcc)
	for _, m := range measurements {
		key := monthlyKey{
			year:    m.Timestamp.Year(),
			month:   int(m.Timestamp.Month()),
			city:    m.City,
			station: m.StationCode,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &meanAcc{}
			groups[key] = acc
		}
		acc.add(m.PM25)
	}

	out := make([]domain.MonthlyMean, 0, len(groups))
	for key, acc := range groups {
		out = append(out, domain.MonthlyMean{
			Year:    key.year,
			Month:   key.month,
			City:    key.city,
			Station: key.station,
			Mean:    acc.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].Station < out[j].Station
	})

	a.logger.Debug("monthly means computed", slog.Int("groups", len(out)))
	return out
}

type cityMonthlyKey struct {
	year  int
	month int
	city  string
}

// MonthlyCityMeans averages the per-station monthly means over all stations
// of a city. NaN station means are skipped.
func (a *Aggregator) MonthlyCityMeans(monthly []domain.MonthlyMean) []domain.CityMonthlyMean {
	groups := make(map[cityMonthlyKey]*meanAcc)
	for _, m := range monthly {
		key := cityMonthlyKey{year: m.Year, month: m.Month, city: m.City}
		acc, ok := groups[key]
		if !ok {
			acc = &meanAcc{}
			groups[key] = acc
		}
		acc.add(m.Mean)
	}

	out := make([]domain.CityMonthlyMean, 0, len(groups))
	for key, acc := range groups {
		out = append(out, domain.CityMonthlyMean{
			Year:  key.year,
			Month: key.month,
			City:  key.city,
			Mean:  acc.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].City < out[j].City
	})

	return out
}

type dailyKey struct {
	year    int
	date    time.Time
	city    string
	station string
}

// calendarDay truncates a timestamp to midnight UTC of its calendar day.
func calendarDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyMeans computes the mean concentration per station and calendar day,
// sorted by year, date, city and station code.
func (a *Aggregator) DailyMeans(measurements []domain.Measurement) []domain.DailyMean {
	groups := make(map[dailyKey]*meanAcc)
	for _, m := range measurements {
		key := dailyKey{
			year:    m.Timestamp.Year(),
			date:    calendarDay(m.Timestamp),
			city:    m.City,
			station: m.StationCode,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &meanAcc{}
			groups[key] = acc
		}
		acc.add(m.PM25)
	}

	out := make([]domain.DailyMean, 0, len(groups))
	for key, acc := range groups {
		out = append(out, domain.DailyMean{
			Year:    key.year,
			Date:    key.date,
			City:    key.city,
			Station: key.station,
			Mean:    acc.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].Station < out[j].Station
	})

	a.logger.Debug("daily means computed", slog.Int("groups", len(out)))
	return out
}

type exceedanceKey struct {
	year    int
	station string
}

// CountExceedanceDays counts, per station and year, the distinct calendar
// days whose daily mean strictly exceeded the threshold. Stations without
// any exceedance day do not appear in the result.
func (a *Aggregator) CountExceedanceDays(daily []domain.DailyMean, threshold float64) []domain.ExceedanceCount {
	days := make(map[exceedanceKey]map[time.Time]bool)
	for _, d := range daily {
		if !(d.Mean > threshold) {
			continue
		}
		key := exceedanceKey{year: d.Year, station: d.Station}
		if days[key] == nil {
			days[key] = make(map[time.Time]bool)
		}
		days[key][d.Date] = true
	}

	out := make([]domain.ExceedanceCount, 0, len(days))
	for key, dates := range days {
		out = append(out, domain.ExceedanceCount{
			Year:    key.year,
			Station: key.station,
			Days:    len(dates),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Station < out[j].Station
	})

	a.logger.Debug("exceedance days counted",
		slog.Float64("threshold", threshold),
		slog.Int("stations", len(out)))

	return out
}

// TopBottomStations selects, within one year, the n stations with the most
// exceedance days followed by the n with the fewest. With 2n or fewer
// stations in the year the two halves overlap, matching how ranked
// selections behave on short lists.
func (a *Aggregator) TopBottomStations(counts []domain.ExceedanceCount, year, n int) []domain.ExceedanceCount {
	var filtered []domain.ExceedanceCount
	for _, c := range counts {
		if c.Year == year {
			filtered = append(filtered, c)
		}
	}

	byDaysDesc := make([]domain.ExceedanceCount, len(filtered))
	copy(byDaysDesc, filtered)
	sort.SliceStable(byDaysDesc, func(i, j int) bool {
		return byDaysDesc[i].Days > byDaysDesc[j].Days
	})

	byDaysAsc := make([]domain.ExceedanceCount, len(filtered))
	copy(byDaysAsc, filtered)
	sort.SliceStable(byDaysAsc, func(i, j int) bool {
		return byDaysAsc[i].Days < byDaysAsc[j].Days
	})

	take := func(s []domain.ExceedanceCount) []domain.ExceedanceCount {
		if len(s) > n {
			return s[:n]
		}
		return s
	}

	out := make([]domain.ExceedanceCount, 0, 2*n)
	out = append(out, take(byDaysDesc)...)
	out = append(out, take(byDaysAsc)...)
	return out
}

type voivDailyKey struct {
	voivodeship string
	station     string
	date        time.Time
}

type voivDateKey struct {
	voivodeship string
	date        time.Time
}

// VoivodeshipExceedances counts, per voivodeship, the days on which the
// voivodeship-wide mean exceeded the threshold. The voivodeship of a
// station comes from the two-letter prefix of its code via names; the mean
// of a voivodeship day is the mean over its stations' daily means, so a
// station with many readings does not outweigh one with few. Results are
// sorted by descending day count, then by name.
func (a *Aggregator) VoivodeshipExceedances(measurements []domain.Measurement, names map[string]string, threshold float64) []domain.VoivodeshipCount {
	stationDays := make(map[voivDailyKey]*meanAcc)
	for _, m := range measurements {
		name, ok := names[domain.VoivodeshipCode(m.StationCode)]
		if !ok {
			continue
		}
		key := voivDailyKey{
			voivodeship: name,
			station:     m.StationCode,
			date:        calendarDay(m.Timestamp),
		}
		acc, ok := stationDays[key]
		if !ok {
			acc = &meanAcc{}
			stationDays[key] = acc
		}
		acc.add(m.PM25)
	}

	voivDays := make(map[voivDateKey]*meanAcc)
	for key, acc := range stationDays {
		dk := voivDateKey{voivodeship: key.voivodeship, date: key.date}
		day, ok := voivDays[dk]
		if !ok {
			day = &meanAcc{}
			voivDays[dk] = day
		}
		day.add(acc.mean())
	}

	counts := make(map[string]int)
	for key, acc := range voivDays {
		if _, ok := counts[key.voivodeship]; !ok {
			counts[key.voivodeship] = 0
		}
		if acc.mean() > threshold {
			counts[key.voivodeship]++
		}
	}

	out := make([]domain.VoivodeshipCount, 0, len(counts))
	for name, days := range counts {
		out = append(out, domain.VoivodeshipCount{Voivodeship: name, Days: days})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].Voivodeship < out[j].Voivodeship
	})

	a.logger.Debug("voivodeship exceedances counted",
		slog.Float64("threshold", threshold),
		slog.Int("voivodeships", len(out)))

	return out
}
