package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gioscli/internal/config"
	"gioscli/internal/dataset"
	"gioscli/internal/exporter"
	"gioscli/internal/infrastructure"
	"gioscli/internal/stats"
	"gioscli/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "long-form hourly CSV to analyze (defaults to data/reports/pm25_hourly.csv)")
	fromWide := flag.Bool("from-wide", false, "read the wide CSV instead and convert it to long form first")
	baseDir := flag.String("out", "", "base directory for data and logs (defaults to the working directory)")
	threshold := flag.Float64("threshold", 0, "daily mean threshold in µg/m³ (defaults to the configured value)")
	year := flag.Int("year", 0, "year for the top/bottom station ranking (0 disables the ranking)")
	top := flag.Int("top", 0, "stations in each half of the ranking (defaults to the configured value)")
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
	cfg.Logging.FilePath = paths.GetLogPath("analyze.log")

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

	logger.InfoContext(ctx, "starting PM2.5 analysis",
		slog.Float64("threshold", *threshold),
		slog.Bool("from_wide", *fromWide))

	aggregator := stats.NewAggregator(logger)

	var measurements []domain.Measurement
	if *fromWide {
		path := *input
		if path == "" {
			path = paths.HourlyWideCSV
		}
		table, err := dataset.ReadWideCSV(path)
		if err != nil {
			logger.ErrorContext(ctx, "failed to read wide CSV", slog.String("error", err.Error()))
			os.Exit(1)
		}
		measurements = aggregator.ConvertWide(table)
	} else {
		path := *input
		if path == "" {
			path = paths.HourlyLongCSV
		}
		measurements, err = dataset.ReadLongCSV(path)
		if err != nil {
			logger.ErrorContext(ctx, "failed to read long CSV", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "measurements loaded", slog.Int("count", len(measurements)))

	monthly := aggregator.MonthlyMeans(measurements)
	cityMonthly := aggregator.MonthlyCityMeans(monthly)
	daily := aggregator.DailyMeans(measurements)
	exceedances := aggregator.CountExceedanceDays(daily, *threshold)
	voivodeships := aggregator.VoivodeshipExceedances(measurements, domain.VoivodeshipNames, *threshold)

	writer := exporter.NewCSVWriter(paths, logger)
	reports := []struct {
		name  string
		write func() error
	}{
		{exporter.MonthlyMeansFile, func() error {
			return writer.WriteMonthlyMeans(exporter.MonthlyMeansFile, monthly)
		}},
		{exporter.CityMonthlyMeansFile, func() error {
			return writer.WriteCityMonthlyMeans(exporter.CityMonthlyMeansFile, cityMonthly)
		}},
		{exporter.DailyMeansFile, func() error {
			return writer.WriteDailyMeans(exporter.DailyMeansFile, daily)
		}},
		{exporter.ExceedancesFile, func() error {
			return writer.WriteExceedances(exporter.ExceedancesFile, exceedances, *threshold)
		}},
		{exporter.VoivodeshipsFile, func() error {
			return writer.WriteVoivodeshipCounts(exporter.VoivodeshipsFile, voivodeships, *threshold)
		}},
	}
	for _, r := range reports {
		if err := r.write(); err != nil {
			logger.ErrorContext(ctx, "failed to write report",
				slog.String("report", r.name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *year != 0 {
		ranked := aggregator.TopBottomStations(exceedances, *year, *top)
		if err := writer.WriteExceedances(exporter.TopBottomFile, ranked, *threshold); err != nil {
			logger.ErrorContext(ctx, "failed to write ranking report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.InfoContext(ctx, "station ranking written",
			slog.Int("year", *year),
			slog.Int("stations", len(ranked)))
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.Int("monthly_groups", len(monthly)),
		slog.Int("daily_groups", len(daily)),
		slog.Int("exceedance_stations", len(exceedances)))

	fmt.Printf("Analysis complete: %d monthly means, %d daily means, %d stations over %.0f µg/m³\n",
		len(monthly), len(daily), len(exceedances), *threshold)
}
