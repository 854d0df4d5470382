package gios

import (
	"context"
	"log/slog"
	"sort"

	"gioscli/internal/config"
	apperrors "gioscli/internal/errors"
	"gioscli/internal/infrastructure"
	"gioscli/pkg/contracts/domain"
)

// Pipeline runs the acquisition stage end to end: download each year's
// archive, clean it, normalize the timestamps, stitch the years together
// and join in the station metadata.
type Pipeline struct {
	client *Client
	logger *slog.Logger
}

// NewPipeline creates an acquisition pipeline over the given client.
func NewPipeline(client *Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Pipeline{client: client, logger: logger}
}

// BuildDataset produces the combined hourly wide table for the requested
// years together with the station metadata used to resolve codes and
// cities. Years are processed in ascending order regardless of the order
// they were requested in.
func (p *Pipeline) BuildDataset(ctx context.Context, years []int) (*domain.WideTable, *domain.MetaTable, error) {
	if len(years) == 0 {
		return nil, nil, apperrors.NewValidationError("no data years requested")
	}

	sorted := make([]int, len(years))
	copy(sorted, years)
	sort.Ints(sorted)

	tables := make([]*domain.WideTable, 0, len(sorted))
	for _, year := range sorted {
		table, err := p.buildYear(ctx, year)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, table)
	}

	meta, err := p.client.DownloadMeta(ctx)
	if err != nil {
		return nil, nil, err
	}

	combined := ConcatYears(tables)
	combined = UpdateStations(combined, meta)
	combined = AssignCities(combined, meta)

	p.logger.InfoContext(ctx, "dataset assembled",
		slog.Int("years", len(sorted)),
		slog.Int("rows", combined.NumRows()),
		slog.Int("stations", combined.NumStations()))

	return combined, meta, nil
}

// buildYear downloads and cleans one year of hourly data.
func (p *Pipeline) buildYear(ctx context.Context, year int) (*domain.WideTable, error) {
	layout, err := config.LayoutForYear(year)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	raw, err := p.client.DownloadArchive(ctx, year, layout)
	if err != nil {
		return nil, err
	}

	table, err := CleanHourly(raw, layout.HeaderRow, layout.DropRows)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to clean hourly data", err).
			WithContext("year", year)
	}

	table = RollMidnight(table)

	p.logger.InfoContext(ctx, "year cleaned",
		slog.Int("year", year),
		slog.Int("rows", table.NumRows()),
		slog.Int("stations", table.NumStations()))

	return table, nil
}
