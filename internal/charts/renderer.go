package charts

import (
	"image/color"
	"log/slog"

	"gioscli/internal/config"
	"gioscli/internal/infrastructure"
)

// Renderer draws the analysis charts into the charts directory as PNGs.
type Renderer struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewRenderer creates a chart renderer rooted at the application paths.
func NewRenderer(paths *config.Paths, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Renderer{paths: paths, logger: logger}
}

// seriesColors is the palette cycled through when a chart carries several
// series.
var seriesColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
}

func seriesColor(i int) color.RGBA {
	return seriesColors[i%len(seriesColors)]
}
