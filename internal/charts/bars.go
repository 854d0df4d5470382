package charts

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// ExceedanceBars draws a grouped bar chart of exceedance day counts for the
// selected stations, one bar group per station and one bar per year.
func (r *Renderer) ExceedanceBars(counts []domain.ExceedanceCount, stations []string, years []int, fileName string) error {
	if len(stations) == 0 || len(years) == 0 {
		return apperrors.NewValidationError("no stations or years selected for the exceedance chart")
	}

	byKey := make(map[int]map[string]int)
	for _, c := range counts {
		if byKey[c.Year] == nil {
			byKey[c.Year] = make(map[string]int)
		}
		byKey[c.Year][c.Station] = c.Days
	}

	p := plot.New()
	p.Title.Text = "Liczba dni z przekroczeniem normy dobowej PM2.5"
	p.X.Label.Text = "Stacja"
	p.Y.Label.Text = "Liczba dni z przekroczeniem"

	barWidth := vg.Points(18)
	for i, year := range years {
		values := make(plotter.Values, len(stations))
		for j, station := range stations {
			values[j] = float64(byKey[year][station])
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return apperrors.NewStorageError("failed to build bar chart", err)
		}
		bars.Color = seriesColor(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(len(years)-1)/2) * barWidth

		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("%d", year), bars)
	}

	p.Legend.Top = true
	p.NominalX(stations...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	path := r.paths.GetChartPath(fileName)
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	r.logger.Info("exceedance chart rendered",
		slog.String("path", path),
		slog.Int("stations", len(stations)),
		slog.Int("years", len(years)))

	return nil
}

// VoivodeshipBars draws the per-voivodeship exceedance day counts as a bar
// chart, with the count printed above each bar. Counts are drawn in the
// order given, which the aggregator sorts by descending day count.
func (r *Renderer) VoivodeshipBars(counts []domain.VoivodeshipCount, year int, threshold float64, fileName string) error {
	if len(counts) == 0 {
		return apperrors.NewValidationError("no voivodeship counts to draw")
	}

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	maxDays := 0
	for i, c := range counts {
		values[i] = float64(c.Days)
		names[i] = c.Voivodeship
		if c.Days > maxDays {
			maxDays = c.Days
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf(
		"Liczba dni z przekroczeniem normy stężenia PM2.5 w roku %d w poszczególnych województwach", year)
	p.Y.Label.Text = fmt.Sprintf("Liczba dni z przekroczeniem progu %g µg/m³", threshold)

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return apperrors.NewStorageError("failed to build bar chart", err)
	}
	bars.Color = seriesColor(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	// Value labels above each bar.
	labelXYs := make(plotter.XYs, len(counts))
	labelTexts := make([]string, len(counts))
	pad := float64(maxDays) * 0.02
	for i, c := range counts {
		labelXYs[i] = plotter.XY{X: float64(i), Y: float64(c.Days) + pad}
		labelTexts[i] = fmt.Sprintf("%d", c.Days)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelTexts})
	if err != nil {
		return apperrors.NewStorageError("failed to build bar labels", err)
	}
	p.Add(labels)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	p.Y.Max = float64(maxDays) * 1.1

	path := r.paths.GetChartPath(fileName)
	if err := p.Save(16*vg.Inch, 10*vg.Inch, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	r.logger.Info("voivodeship chart rendered",
		slog.String("path", path),
		slog.Int("voivodeships", len(counts)))

	return nil
}
