package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gioscli/internal/charts"
	"gioscli/internal/config"
	"gioscli/internal/dataset"
	"gioscli/internal/infrastructure"
	"gioscli/internal/stats"
	"gioscli/pkg/contracts/domain"
)

// Chart file names under the charts directory.
const (
	trendChart       = "pm25_monthly_trend.png"
	heatmapChart     = "pm25_city_heatmaps.png"
	exceedanceChart  = "pm25_exceedance_days.png"
	voivodeshipChart = "pm25_voivodeship_days.png"
)

func main() {
	input := flag.String("input", "", "long-form hourly CSV to chart (defaults to data/reports/pm25_hourly.csv)")
	baseDir := flag.String("out", "", "base directory for data and logs (defaults to the working directory)")
	citiesFlag := flag.String("cities", "Warszawa,Katowice", "comma-separated cities for the trend chart")
	yearsFlag := flag.String("years", "", "comma-separated years to chart (defaults to all years in the data)")
	threshold := flag.Float64("threshold", 0, "daily mean threshold in µg/m³ (defaults to the configured value)")
	top := flag.Int("top", 0, "stations in each half of the exceedance chart (defaults to the configured value)")
	flag.Parse()

	paths, err := config.GetPaths(*baseDir)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("charts.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *threshold == 0 {
		*threshold = cfg.Analysis.DailyThreshold
	}
	if *top == 0 {
		*top = cfg.Analysis.TopStations
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	path := *input
	if path == "" {
		path = paths.HourlyLongCSV
	}
	measurements, err := dataset.ReadLongCSV(path)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read long CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "starting chart rendering",
		slog.String("input", path),
		slog.Int("measurements", len(measurements)))

	aggregator := stats.NewAggregator(logger)
	monthly := aggregator.MonthlyMeans(measurements)
	cityMonthly := aggregator.MonthlyCityMeans(monthly)
	daily := aggregator.DailyMeans(measurements)
	exceedances := aggregator.CountExceedanceDays(daily, *threshold)

	years, err := resolveYears(*yearsFlag, monthly)
	if err != nil {
		logger.Error("Invalid -years flag", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cities := splitList(*citiesFlag)

	renderer := charts.NewRenderer(paths, logger)

	if err := renderer.TrendLines(cityMonthly, cities, years, trendChart); err != nil {
		logger.ErrorContext(ctx, "trend chart failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := renderer.HeatmapGrid(cityMonthly, years, heatmapChart); err != nil {
		logger.ErrorContext(ctx, "heatmap grid failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The exceedance chart shows the top and bottom stations of the most
	// recent charted year across all charted years.
	latest := years[len(years)-1]
	ranked := aggregator.TopBottomStations(exceedances, latest, *top)
	stations := make([]string, 0, len(ranked))
	seen := make(map[string]bool)
	for _, c := range ranked {
		if !seen[c.Station] {
			seen[c.Station] = true
			stations = append(stations, c.Station)
		}
	}
	if len(stations) > 0 {
		if err := renderer.ExceedanceBars(exceedances, stations, years, exceedanceChart); err != nil {
			logger.ErrorContext(ctx, "exceedance chart failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.WarnContext(ctx, "no exceedance days found, skipping exceedance chart",
			slog.Int("year", latest))
	}

	var latestYear []domain.Measurement
	for _, m := range measurements {
		if m.Timestamp.Year() == latest {
			latestYear = append(latestYear, m)
		}
	}
	voivodeships := aggregator.VoivodeshipExceedances(latestYear, domain.VoivodeshipNames, *threshold)
	if len(voivodeships) > 0 {
		if err := renderer.VoivodeshipBars(voivodeships, latest, *threshold, voivodeshipChart); err != nil {
			logger.ErrorContext(ctx, "voivodeship chart failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "charts rendered", slog.String("charts_dir", paths.ChartsDir))
	fmt.Printf("Charts rendered to %s\n", paths.ChartsDir)
}

// resolveYears parses the -years flag or falls back to every year present
// in the monthly means, ascending.
func resolveYears(s string, monthly []domain.MonthlyMean) ([]int, error) {
	if strings.TrimSpace(s) != "" {
		var years []int
		for _, part := range splitList(s) {
			y, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("bad year %q: %w", part, err)
			}
			years = append(years, y)
		}
		if len(years) == 0 {
			return nil, fmt.Errorf("no years given")
		}
		// The last charted year drives the ranking and voivodeship charts,
		// so the list must be ascending regardless of flag order.
		sort.Ints(years)
		return years, nil
	}

	seen := make(map[int]bool)
	var years []int
	for _, m := range monthly {
		if !seen[m.Year] {
			seen[m.Year] = true
			years = append(years, m.Year)
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years found in the data")
	}
	sort.Ints(years)
	return years, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
