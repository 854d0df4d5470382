package charts

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apperrors "gioscli/internal/errors"
	"gioscli/pkg/contracts/domain"
)

// Heatmap grid dimensions, sized for the GIOŚ city set.
const (
	heatmapRows = 6
	heatmapCols = 3
)

// cityGrid adapts one city's monthly means to plotter.GridXYZ: columns are
// months, rows are years in the requested order. Missing months stay NaN
// and render as empty cells.
type cityGrid struct {
	years []int
	cells [][]float64 // cells[yearIdx][monthIdx]
}

func newCityGrid(years []int) *cityGrid {
	cells := make([][]float64, len(years))
	for i := range cells {
		cells[i] = make([]float64, 12)
		for j := range cells[i] {
			cells[i][j] = math.NaN()
		}
	}
	return &cityGrid{years: years, cells: cells}
}

func (g *cityGrid) Dims() (c, r int)   { return 12, len(g.years) }
func (g *cityGrid) Z(c, r int) float64 { return g.cells[r][c] }
func (g *cityGrid) X(c int) float64    { return float64(c + 1) }
func (g *cityGrid) Y(r int) float64    { return float64(g.years[r]) }

// HeatmapGrid renders one heatmap of monthly means per city, laid out on a
// fixed grid in a single PNG. All heatmaps share one color scale so cities
// can be compared directly.
func (r *Renderer) HeatmapGrid(cityMonthly []domain.CityMonthlyMean, years []int, fileName string) error {
	inYears := make(map[int]bool, len(years))
	for _, y := range years {
		inYears[y] = true
	}
	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	grids := make(map[string]*cityGrid)
	var cities []string
	globalMin, globalMax := math.Inf(1), math.Inf(-1)

	for _, m := range cityMonthly {
		if !inYears[m.Year] || math.IsNaN(m.Mean) {
			continue
		}
		g, ok := grids[m.City]
		if !ok {
			g = newCityGrid(years)
			grids[m.City] = g
			cities = append(cities, m.City)
		}
		g.cells[yearIdx[m.Year]][m.Month-1] = m.Mean
		globalMin = math.Min(globalMin, m.Mean)
		globalMax = math.Max(globalMax, m.Mean)
	}

	if len(cities) == 0 {
		return apperrors.NewValidationError("no city means to draw heatmaps from")
	}
	if len(cities) > heatmapRows*heatmapCols {
		cities = cities[:heatmapRows*heatmapCols]
	}

	yearTicks := make([]plot.Tick, len(years))
	for i, y := range years {
		yearTicks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}

	plots := make([][]*plot.Plot, heatmapRows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, heatmapCols)
	}

	pal := palette.Heat(12, 1)
	for i, city := range cities {
		hm := plotter.NewHeatMap(grids[city], pal)
		hm.Min = globalMin
		hm.Max = globalMax

		p := plot.New()
		p.Title.Text = city
		p.X.Label.Text = "Miesiąc"
		p.Y.Label.Text = "Rok"
		p.Y.Tick.Marker = plot.ConstantTicks(yearTicks)
		p.Add(hm)

		plots[i/heatmapCols][i%heatmapCols] = p
	}

	img := vgimg.New(18*vg.Inch, 36*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: heatmapRows,
		Cols: heatmapCols,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	path := r.paths.GetChartPath(fileName)
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}

	r.logger.Info("heatmap grid rendered",
		slog.String("path", path),
		slog.Int("cities", len(cities)))

	return nil
}
