package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the create and show commands.
type Config struct {
	Dataset    string `yaml:"dataset"`
	Population string `yaml:"population"`
	Database   string `yaml:"database"`

	PinLabel          string        `yaml:"pin_label"`
	HerdImmunity      float64       `yaml:"herd_immunity_threshold"`
	GlobalPopulation  float64       `yaml:"global_population"`
	TopN              int           `yaml:"top_n"`
	ExcludedCountries []string      `yaml:"excluded_countries"`
	PopulationTimeout time.Duration `yaml:"population_timeout"`
	Workers           int           `yaml:"workers"`

	S3 S3 `yaml:"s3"`

	LogLevel string `yaml:"log_level"`
}

// S3 holds the object store connection used for s3:// sources.
type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

func Default() *Config {
	return &Config{
		Dataset:          "s3://covid-19-vaccination-data3/_raw_data.csv",
		Population:       "s3://covid-19-vaccination-data3/population.csv",
		Database:         "/tmp/vaccination-stats.json",
		PinLabel:         "Canada",
		HerdImmunity:     70,
		GlobalPopulation: 7_800_000_000,
		TopN:             10,
		ExcludedCountries: []string{
			"Anguilla",
			"Guernsey",
			"Jersey",
			"Northern Cyprus",
			"Saint Helena",
		},
		PopulationTimeout: 2 * time.Second,
		Workers:           8,
		S3: S3{
			Endpoint: "s3.amazonaws.com",
			Secure:   true,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults (an empty path skips the
// file), then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config '%s': %w", path, err)
		}
	}

	cfg.Dataset = getEnv("VACC_DATASET", cfg.Dataset)
	cfg.Population = getEnv("VACC_POPULATION", cfg.Population)
	cfg.Database = getEnv("VACC_DATABASE", cfg.Database)
	cfg.PinLabel = getEnv("VACC_PIN", cfg.PinLabel)
	cfg.S3.Endpoint = getEnv("VACC_S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getEnv("VACC_S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("VACC_S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Secure = getEnvBool("VACC_S3_SECURE", cfg.S3.Secure)
	cfg.LogLevel = getEnv("VACC_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.PinLabel) == "" {
		errs = append(errs, errors.New("pin_label must not be empty"))
	}
	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", c.TopN))
	}
	if c.GlobalPopulation <= 0 {
		errs = append(errs, fmt.Errorf("global_population must be positive, got %.f", c.GlobalPopulation))
	}
	if c.HerdImmunity <= 0 || c.HerdImmunity > 100 {
		errs = append(errs, fmt.Errorf("herd_immunity_threshold must be in (0, 100], got %g", c.HerdImmunity))
	}
	if c.Dataset == "" {
		errs = append(errs, errors.New("dataset source must be set"))
	}
	return errors.Join(errs...)
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
