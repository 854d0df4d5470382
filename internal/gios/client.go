package gios

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/xuri/excelize/v2"

	"gioscli/internal/config"
	apperrors "gioscli/internal/errors"
	"gioscli/internal/infrastructure"
	"gioscli/pkg/contracts/domain"
)

// Client downloads yearly measurement archives and station metadata from
// the GIOŚ archive endpoint. Downloads are sequential; the limiter only
// keeps the client polite towards the public server.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	archiveURL string
	metaID     string
	retries    int
	cacheDir   string
	force      bool
	logger     *slog.Logger
}

// NewClient creates a client for the configured archive endpoint.
func NewClient(cfg config.GiosConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		archiveURL: cfg.ArchiveURL,
		metaID:     cfg.MetaArchiveID,
		retries:    cfg.DownloadRetries,
		logger:     logger,
	}
}

// WithCache points the client at a directory of previously downloaded
// archives. Cached archives are reused instead of re-downloaded unless
// force is set.
func (c *Client) WithCache(dir string, force bool) *Client {
	c.cacheDir = dir
	c.force = force
	return c
}

// DownloadArchive fetches the ZIP archive for one data year and returns the
// raw rows of the hourly PM2.5 workbook it contains. No header
// interpretation happens here; CleanHourly does that.
func (c *Client) DownloadArchive(ctx context.Context, year int, layout config.YearLayout) ([][]string, error) {
	c.logger.InfoContext(ctx, "downloading yearly archive",
		slog.Int("year", year),
		slog.String("archive_id", layout.ArchiveID))

	body, cached, err := c.cachedFetch(ctx, layout)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("failed to download archive for year %d", year), err)
	}
	if cached {
		c.logger.InfoContext(ctx, "using cached archive",
			slog.Int("year", year),
			slog.String("file", layout.FileName))
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("archive for year %d is not a valid ZIP", year), err)
	}

	entry, err := findArchiveEntry(zr, layout.FileName)
	if err != nil {
		return nil, err
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open %s inside archive", entry.Name), err)
	}
	defer rc.Close()

	rows, err := readWorkbookRows(rc)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse workbook %s", entry.Name), err)
	}

	c.logger.InfoContext(ctx, "archive downloaded",
		slog.Int("year", year),
		slog.String("file", entry.Name),
		slog.Int("raw_rows", len(rows)))

	return rows, nil
}

// DownloadMeta fetches and parses the station metadata workbook.
func (c *Client) DownloadMeta(ctx context.Context) (*domain.MetaTable, error) {
	c.logger.InfoContext(ctx, "downloading station metadata",
		slog.String("archive_id", c.metaID))

	body, err := c.fetch(ctx, c.metaID)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to download station metadata", err)
	}

	rows, err := readWorkbookRows(bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse station metadata workbook", err)
	}

	meta, err := ParseMeta(rows)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "station metadata downloaded",
		slog.Int("stations", len(meta.Stations)))

	return meta, nil
}

// cachedFetch returns a year's ZIP from the cache directory when present,
// downloading and caching it otherwise. The bool reports a cache hit.
func (c *Client) cachedFetch(ctx context.Context, layout config.YearLayout) ([]byte, bool, error) {
	if c.cacheDir == "" {
		body, err := c.fetch(ctx, layout.ArchiveID)
		return body, false, err
	}

	cachePath := filepath.Join(c.cacheDir, strings.TrimSuffix(layout.FileName, ".xlsx")+".zip")
	if !c.force {
		if body, err := os.ReadFile(cachePath); err == nil && len(body) > 0 {
			return body, true, nil
		}
	}

	body, err := c.fetch(ctx, layout.ArchiveID)
	if err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(cachePath, body, 0o644); err != nil {
		c.logger.WarnContext(ctx, "failed to cache archive",
			slog.String("path", cachePath),
			slog.String("error", err.Error()))
	}
	return body, false, nil
}

// fetch performs a rate-limited GET of an archive ID, retrying transient
// failures up to the configured count.
func (c *Client) fetch(ctx context.Context, id string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying download",
				slog.String("archive_id", id),
				slog.Int("attempt", attempt+1),
				slog.String("error", lastErr.Error()))
		}
		body, err := c.fetchOnce(ctx, id)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// fetchOnce performs one rate-limited GET of an archive ID.
func (c *Client) fetchOnce(ctx context.Context, id string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.archiveURL + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status for %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body for %s: %w", url, err)
	}

	c.logger.Debug("archive entry fetched",
		slog.String("url", url),
		slog.Int("size_bytes", len(body)))

	return body, nil
}

// findArchiveEntry locates the wanted workbook inside the ZIP. Matching is
// by base name so archives that nest files in a directory still resolve.
func findArchiveEntry(zr *zip.Reader, fileName string) (*zip.File, error) {
	for _, f := range zr.File {
		name := f.Name
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}
		if strings.EqualFold(name, fileName) {
			return f, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("workbook %s in archive", fileName))
}

// readWorkbookRows opens an xlsx stream and returns the raw cell rows of
// its first sheet.
func readWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
