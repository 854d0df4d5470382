package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gioscli/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://powietrze.gios.gov.pl/pjp/archives/downloadFile/", cfg.Gios.ArchiveURL)
	assert.Equal(t, "622", cfg.Gios.MetaArchiveID)
	assert.Equal(t, 2*time.Minute, cfg.Gios.RequestTimeout)
	assert.Equal(t, 15.0, cfg.Analysis.DailyThreshold)
	assert.Equal(t, 3, cfg.Analysis.TopStations)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/gioscli.log", cfg.Logging.FilePath)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}, wantErr: false},
		{
			name:    "bad archive URL",
			mutate:  func(c *Config) { c.Gios.ArchiveURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "zero threshold",
			mutate:  func(c *Config) { c.Analysis.DailyThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
gios:
  archive_url: "https://example.com/archives/"
  meta_archive_id: "999"
analysis:
  daily_threshold: 25
logging:
  level: debug
  format: text
  output: console
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("GIOS_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/archives/", cfg.Gios.ArchiveURL)
	assert.Equal(t, "999", cfg.Gios.MetaArchiveID)
	assert.Equal(t, 25.0, cfg.Analysis.DailyThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Fields the file leaves out keep their built-in defaults.
	assert.Equal(t, 2*time.Minute, cfg.Gios.RequestTimeout)
	assert.Equal(t, 3, cfg.Analysis.TopStations)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("gios: [not a mapping"), 0644))
	t.Setenv("GIOS_CONFIG_FILE", configFile)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
analysis:
  daily_threshold: 25
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("GIOS_CONFIG_FILE", configFile)
	t.Setenv("GIOS_ANALYSIS_DAILY_THRESHOLD", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Analysis.DailyThreshold)
}

func TestLayoutForYear(t *testing.T) {
	layout, err := LayoutForYear(2015)
	require.NoError(t, err)
	assert.Equal(t, "236", layout.ArchiveID)
	assert.Equal(t, "2015_PM25_1g.xlsx", layout.FileName)
	assert.Equal(t, 0, layout.HeaderRow)
	assert.Equal(t, []int{0, 1, 2}, layout.DropRows)

	layout, err = LayoutForYear(2018)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, layout.DropRows)

	_, err = LayoutForYear(1999)
	assert.Error(t, err)
}

func TestSupportedYears(t *testing.T) {
	years := SupportedYears()
	assert.Len(t, years, 10)
	assert.Contains(t, years, 2015)
	assert.Contains(t, years, 2024)
}
