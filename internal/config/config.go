package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "gioscli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Gios     GiosConfig     `yaml:"gios" envconfig:"GIOS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// GiosConfig contains settings for the GIOŚ archive endpoint
type GiosConfig struct {
	ArchiveURL      string        `yaml:"archive_url" envconfig:"ARCHIVE_URL" validate:"required,url"`
	MetaArchiveID   string        `yaml:"meta_archive_id" envconfig:"META_ARCHIVE_ID" validate:"required"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	RequestsPerSec  float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC" validate:"gt=0"`
	DownloadRetries int           `yaml:"download_retries" envconfig:"DOWNLOAD_RETRIES" validate:"gte=0"`
}

// AnalysisConfig contains defaults for the statistics stage
type AnalysisConfig struct {
	DailyThreshold float64 `yaml:"daily_threshold" envconfig:"DAILY_THRESHOLD" validate:"gt=0"`
	TopStations    int     `yaml:"top_stations" envconfig:"TOP_STATIONS" validate:"gte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load builds the configuration in three layers: built-in defaults, then the
// optional YAML file, then environment variables (prefix GIOS). Each layer
// only overrides what it actually sets, so file values survive unless an
// env var shadows them.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to read config file", err).
				WithContext("path", configFile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to parse config file", err).
				WithContext("path", configFile)
		}
	}

	if err := envconfig.Process("GIOS", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration. Load starts from these values;
// the CLIs also fall back to them when Load fails.
func Default() *Config {
	return &Config{
		Gios: GiosConfig{
			ArchiveURL:     "https://powietrze.gios.gov.pl/pjp/archives/downloadFile/",
			MetaArchiveID:  "622",
			RequestTimeout: 2 * time.Minute,
			RequestsPerSec: 1,
		},
		Analysis: AnalysisConfig{
			DailyThreshold: 15,
			TopStations:    3,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/gioscli.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the path of the optional YAML config file.
// GIOS_CONFIG_FILE overrides the default "config.yaml" next to the binary.
func getConfigFilePath() string {
	if path := os.Getenv("GIOS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
