package charts

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// TrendLines draws the monthly mean trend for the selected cities and
// years, one line per city and year pair. Months without a usable mean
// leave a gap in the line.
func (r *Renderer) TrendLines(cityMonthly []domain.CityMonthlyMean, cities []string, years []int, fileName string) error {
	p := plot.New()
	p.Title.Text = "Trend średnich miesięcznych PM2.5"
	p.X.Label.Text = "Miesiąc"
	p.Y.Label.Text = "Średnia miesięczna wartość PM25"
	p.Add(plotter.NewGrid())

	type seriesKey struct {
		city string
		year int
	}
	byMonth := make(map[seriesKey]map[int]float64)
	for _, m := range cityMonthly {
		if math.IsNaN(m.Mean) {
			continue
		}
		key := seriesKey{city: m.City, year: m.Year}
		if byMonth[key] == nil {
			byMonth[key] = make(map[int]float64)
		}
		byMonth[key][m.Month] = m.Mean
	}

	idx := 0
	for _, city := range cities {
		for _, year := range years {
			months := byMonth[seriesKey{city: city, year: year}]
			if len(months) == 0 {
				continue
			}

			pts := make(plotter.XYs, 0, 12)
			for month := 1; month <= 12; month++ {
				if v, ok := months[month]; ok {
					pts = append(pts, plotter.XY{X: float64(month), Y: v})
				}
			}

			line, err := plotter.NewLine(pts)
			if err != nil {
				return apperrors.NewStorageError("failed to build trend line", err)
			}
			line.Color = seriesColor(idx)
			line.Width = vg.Points(2)
			idx++

			p.Add(line)
			p.Legend.Add(fmt.Sprintf("%s %d", city, year), line)
		}
	}
	p.Legend.Top = true

	path := r.paths.GetChartPath(fileName)
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	r.logger.Info("trend chart rendered",
		slog.String("path", path),
		slog.Int("series", idx))

	return nil
}
