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

	"gioscli/internal/config"
	"gioscli/internal/dataset"
	"gioscli/internal/exporter"
	"gioscli/internal/gios"
	"gioscli/internal/infrastructure"
	"gioscli/internal/stats"
)

func main() {
	yearsFlag := flag.String("years", "", "data years to download, e.g. \"2015-2018\" or \"2015,2017\" (defaults to all supported years)")
	baseDir := flag.String("out", "", "base directory for data and logs (defaults to the working directory)")
	metaOnly := flag.Bool("meta-only", false, "download only the station metadata")
	force := flag.Bool("force", false, "re-download archives even when already cached under data/downloads")
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
	cfg.Logging.FilePath = paths.GetLogPath("fetch.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	years, err := parseYears(*yearsFlag)
	if err != nil {
		logger.Error("Invalid -years flag", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	logger.InfoContext(ctx, "starting PM2.5 data fetch",
		slog.Any("years", years),
		slog.Bool("meta_only", *metaOnly),
		slog.String("base_dir", paths.BaseDir))

	client := gios.NewClient(cfg.Gios, logger).WithCache(paths.DownloadsDir, *force)
	writer := exporter.NewCSVWriter(paths, logger)

	if *metaOnly {
		meta, err := client.DownloadMeta(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "metadata download failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := writer.WriteStations(exporter.StationsFile, meta); err != nil {
			logger.ErrorContext(ctx, "failed to write station report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Station metadata written: %d stations\n", len(meta.Stations))
		return
	}

	pipeline := gios.NewPipeline(client, logger)
	table, meta, err := pipeline.BuildDataset(ctx, years)
	if err != nil {
		logger.ErrorContext(ctx, "dataset build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dataset.WriteWideCSV(paths.HourlyWideCSV, table); err != nil {
		logger.ErrorContext(ctx, "failed to write wide CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	aggregator := stats.NewAggregator(logger)
	measurements := aggregator.ConvertWide(table)
	if err := dataset.WriteLongCSV(paths.HourlyLongCSV, measurements); err != nil {
		logger.ErrorContext(ctx, "failed to write long CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writer.WriteStations(exporter.StationsFile, meta); err != nil {
		logger.ErrorContext(ctx, "failed to write station report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "fetch complete",
		slog.Int("rows", table.NumRows()),
		slog.Int("stations", table.NumStations()),
		slog.String("wide_csv", paths.HourlyWideCSV),
		slog.String("long_csv", paths.HourlyLongCSV))

	fmt.Printf("Fetched %d years: %d hourly rows, %d stations\n", len(years), table.NumRows(), table.NumStations())
}

// parseYears parses the -years flag: comma-separated years and inclusive
// ranges ("2015-2018"). Empty means all supported years.
func parseYears(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		years := config.SupportedYears()
		sort.Ints(years)
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(from))
			if err != nil {
				return nil, fmt.Errorf("bad year range %q: %w", part, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(to))
			if err != nil {
				return nil, fmt.Errorf("bad year range %q: %w", part, err)
			}
			if end < start {
				return nil, fmt.Errorf("bad year range %q: end before start", part)
			}
			for y := start; y <= end; y++ {
				years = append(years, y)
			}
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", part, err)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years given")
	}
	return years, nil
}
