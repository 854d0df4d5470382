package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: downloaded
// archives, generated report CSVs, rendered charts and logs.
type Paths struct {
	BaseDir      string
	DataDir      string
	DownloadsDir string
	ReportsDir   string
	ChartsDir    string
	LogsDir      string

	// Well-known artifacts
	HourlyWideCSV string
	HourlyLongCSV string
	StationsCSV   string
}

// GetPaths returns the application paths rooted at baseDir. An empty baseDir
// means the current working directory.
func GetPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	// Directory structure:
	//   data/
	//     downloads/   yearly GIOŚ archives and metadata workbooks
	//     reports/     generated CSV artifacts
	//     charts/      rendered PNGs
	//   logs/
	dataDir := filepath.Join(baseDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		BaseDir:      baseDir,
		DataDir:      dataDir,
		DownloadsDir: filepath.Join(dataDir, "downloads"),
		ReportsDir:   reportsDir,
		ChartsDir:    filepath.Join(dataDir, "charts"),
		LogsDir:      filepath.Join(baseDir, "logs"),

		HourlyWideCSV: filepath.Join(reportsDir, "pm25_hourly_wide.csv"),
		HourlyLongCSV: filepath.Join(reportsDir, "pm25_hourly.csv"),
		StationsCSV:   filepath.Join(reportsDir, "stations.csv"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DownloadsDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetDownloadPath returns the full path for a downloaded file
func (p *Paths) GetDownloadPath(filename string) string {
	return filepath.Join(p.DownloadsDir, filename)
}

// GetReportPath returns the full path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the full path for a rendered chart
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
