package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values are read from app.env (optional) and overridden by environment variables.
type Config struct {
	DBSource          string        `mapstructure:"DB_SOURCE"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	ShopsTable        string        `mapstructure:"SHOPS_TABLE"`
	ImportFile        string        `mapstructure:"IMPORT_FILE"`
	ImportBatchSize   int           `mapstructure:"IMPORT_BATCH_SIZE"`
	ImportConcurrency int           `mapstructure:"IMPORT_CONCURRENCY"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	FetchLimit        int           `mapstructure:"FETCH_LIMIT"`
	SampleSize        int           `mapstructure:"SAMPLE_SIZE"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"DB_SOURCE":          "",
	"SERVER_ADDRESS":     ":8080",
	"SHOPS_TABLE":        "motorcycle_shops",
	"IMPORT_FILE":        "utils/data/eu_motorcycle_repairs.csv",
	"IMPORT_BATCH_SIZE":  100,
	"IMPORT_CONCURRENCY": 1,
	"REQUEST_TIMEOUT":    "30s",
	"FETCH_LIMIT":        10000,
	"SAMPLE_SIZE":        5,
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "console",
}

// ValidationError lists every configuration problem found in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config: invalid configuration: " + strings.Join(e.Problems, "; ")
}

// LoadConfig reads configuration from path/app.env and the environment, then validates it.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks required keys and value ranges.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DBSource) == "" {
		problems = append(problems, "DB_SOURCE is required")
	}
	if strings.TrimSpace(c.ShopsTable) == "" {
		problems = append(problems, "SHOPS_TABLE must not be empty")
	}
	if c.ImportBatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("IMPORT_BATCH_SIZE (%d) must be positive", c.ImportBatchSize))
	}
	if c.ImportConcurrency <= 0 {
		problems = append(problems, fmt.Sprintf("IMPORT_CONCURRENCY (%d) must be positive", c.ImportConcurrency))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}
	if c.FetchLimit <= 0 {
		problems = append(problems, fmt.Sprintf("FETCH_LIMIT (%d) must be positive", c.FetchLimit))
	}
	if c.SampleSize <= 0 {
		problems = append(problems, fmt.Sprintf("SAMPLE_SIZE (%d) must be positive", c.SampleSize))
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT (%q) must be console or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
