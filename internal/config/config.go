// Package config loads cartlift configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// CARTLIFT_* environment variables. A double underscore in a variable name
// separates sections, e.g. CARTLIFT_SERVER__RATE_LIMIT sets server.rate_limit.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Dir returns the cartlift config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/cartlift if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cartlift"), nil
}

// DataDir returns the cartlift data directory, respecting XDG_DATA_HOME.
// The dataset cache and the rule database live here by default.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "cartlift"), nil
}

// DefaultSource is the UCI Online Retail II workbook.
const DefaultSource = "https://archive.ics.uci.edu/ml/machine-learning-databases/00502/online_retail_II.xlsx"

// Config is the complete cartlift configuration.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Training TrainingConfig `koanf:"training"`
	Query    QueryConfig    `koanf:"query"`
	Insights InsightsConfig `koanf:"insights"`
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Log      LogConfig      `koanf:"log"`
}

// DataConfig locates the transaction dataset.
type DataConfig struct {
	// Source is an http(s) URL, an s3://bucket/key URI or a local path.
	Source string `koanf:"source" validate:"required"`
	// CachePath is where a downloaded Source is kept. Empty derives a path
	// under the data directory from the source file name.
	CachePath string   `koanf:"cache_path"`
	Sheets    []string `koanf:"sheets"`

	S3Region    string `koanf:"s3_region"`
	S3Endpoint  string `koanf:"s3_endpoint" validate:"omitempty,url"`
	S3PathStyle bool   `koanf:"s3_path_style"`
	// Static S3 credentials; the AWS default chain is used when empty.
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
}

// TrainingConfig controls sampling and aggregation.
type TrainingConfig struct {
	TopProducts    int   `koanf:"top_products" validate:"gte=0"`
	SampleInvoices int   `koanf:"sample_invoices" validate:"gte=0"`
	Seed           int64 `koanf:"seed"`
	Shards         int   `koanf:"shards" validate:"gte=0,lte=256"`
}

// QueryConfig holds recommendation query defaults.
type QueryConfig struct {
	TopN    int     `koanf:"top_n" validate:"gt=0"`
	MinLift float64 `koanf:"min_lift" validate:"gte=0"`
}

// InsightsConfig holds the thresholds of the insights report.
type InsightsConfig struct {
	MinSupport float64 `koanf:"min_support" validate:"gte=0,lte=1"`
	MinLift    float64 `koanf:"min_lift" validate:"gte=0"`
	Limit      int     `koanf:"limit" validate:"gt=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"` // requests per window per IP, 0 disables
	RateWindow      time.Duration `koanf:"rate_window" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Watch           bool          `koanf:"watch"`
}

// StoreConfig locates the rule database.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// Default returns the built-in configuration. Paths are placed under the
// data directory when it can be resolved, otherwise in the working directory.
func Default() *Config {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "."
	}

	return &Config{
		Data: DataConfig{
			Source: DefaultSource,
			Sheets: []string{"Year 2009-2010", "Year 2010-2011"},
		},
		Training: TrainingConfig{
			TopProducts:    50,
			SampleInvoices: 20000,
			Seed:           42,
		},
		Query: QueryConfig{
			TopN:    5,
			MinLift: 1.0,
		},
		Insights: InsightsConfig{
			MinSupport: 0.01,
			MinLift:    1.5,
			Limit:      10,
		},
		Server: ServerConfig{
			Addr:            ":8000",
			RateLimit:       100,
			RateWindow:      time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "cartlift.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// CachePath returns the local path for the configured source.
func (c *Config) CachePath() string {
	if c.Data.CachePath != "" {
		return c.Data.CachePath
	}
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "."
	}
	return filepath.Join(dataDir, "cache", filepath.Base(c.Data.Source))
}
