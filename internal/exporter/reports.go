package exporter

import (
	"fmt"
	"strings"

	"gioscli/pkg/contracts/domain"
)

// Report file names under the reports directory.
const (
	MonthlyMeansFile     = "pm25_monthly_means.csv"
	CityMonthlyMeansFile = "pm25_monthly_city_means.csv"
	DailyMeansFile       = "pm25_daily_means.csv"
	ExceedancesFile      = "pm25_exceedance_days.csv"
	VoivodeshipsFile     = "pm25_voivodeship_days.csv"
	TopBottomFile        = "pm25_top_bottom_stations.csv"
	StationsFile         = "stations.csv"
)

const dateFormat = "2006-01-02"

// exceedanceHeader names the day-count column after the threshold it was
// counted against, so the file is self-describing.
func exceedanceHeader(threshold float64) string {
	return fmt.Sprintf("Liczba dni PM25 > %g", threshold)
}

// WriteMonthlyMeans writes the per-station monthly means report.
func (w *CSVWriter) WriteMonthlyMeans(filePath string, means []domain.MonthlyMean) error {
	records := make([][]string, 0, len(means))
	for _, m := range means {
		records = append(records, []string{
			formatInt(m.Year),
			formatInt(m.Month),
			m.City,
			m.Station,
			formatValue(m.Mean),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"Rok", "Miesiąc", "Miejscowość", "Kod stacji", "Mean PM25"}, records)
}

// WriteCityMonthlyMeans writes the per-city monthly means report.
func (w *CSVWriter) WriteCityMonthlyMeans(filePath string, means []domain.CityMonthlyMean) error {
	records := make([][]string, 0, len(means))
	for _, m := range means {
		records = append(records, []string{
			formatInt(m.Year),
			formatInt(m.Month),
			m.City,
			formatValue(m.Mean),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"Rok", "Miesiąc", "Miejscowość", "Mean PM25"}, records)
}

// WriteDailyMeans streams the per-station daily means report. This is the
// largest report, so it goes through the stream writer.
func (w *CSVWriter) WriteDailyMeans(filePath string, means []domain.DailyMean) error {
	sw, err := w.CreateStreamWriter(filePath,
		[]string{"Rok", "Data", "Miejscowość", "Kod stacji", "Daily mean PM25"})
	if err != nil {
		return err
	}

	for _, m := range means {
		record := []string{
			formatInt(m.Year),
			m.Date.Format(dateFormat),
			m.City,
			m.Station,
			formatValue(m.Mean),
		}
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return err
		}
	}

	return sw.Close()
}

// WriteExceedances writes the per-station exceedance day counts. The counts
// column carries the threshold in its header. An empty counts slice still
// produces a file with headers.
func (w *CSVWriter) WriteExceedances(filePath string, counts []domain.ExceedanceCount, threshold float64) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{
			formatInt(c.Year),
			c.Station,
			formatInt(c.Days),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"Rok", "Kod stacji", exceedanceHeader(threshold)}, records)
}

// WriteVoivodeshipCounts writes the per-voivodeship exceedance day counts.
func (w *CSVWriter) WriteVoivodeshipCounts(filePath string, counts []domain.VoivodeshipCount, threshold float64) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{
			c.Voivodeship,
			formatInt(c.Days),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"Województwo", exceedanceHeader(threshold)}, records)
}

// WriteStations writes the station metadata report.
func (w *CSVWriter) WriteStations(filePath string, meta *domain.MetaTable) error {
	records := make([][]string, 0, len(meta.Stations))
	for _, s := range meta.Stations {
		records = append(records, []string{
			s.Code,
			s.InternationalCode,
			s.Name,
			s.City,
			strings.Join(s.OldCodes, ", "),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"Kod stacji", "Kod międzynarodowy", "Nazwa stacji", "Miejscowość", "Stary kod stacji"}, records)
}
