// Package common provides shared utilities for RevPulse
package common

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/revpulse/internal/models"
)

// Config holds all configuration for RevPulse
type Config struct {
	Environment string        `toml:"environment"`
	Businesses  []string      `toml:"businesses"` // Business names to schedule for evaluation; first entry is the default
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Health      HealthConfig  `toml:"health"`
	Alerts      AlertsConfig  `toml:"alerts"`
	Notify      NotifyConfig  `toml:"notify"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds path configuration for the 2 storage areas.
type StorageConfig struct {
	Reviews AreaConfig `toml:"reviews"` // Review records (BadgerHold)
	Alerts  AreaConfig `toml:"alerts"`  // Alert history + notification rules (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// HealthConfig holds the business-health score weights.
// Weights are normalized at load time so they always sum to 1.
type HealthConfig struct {
	RatingWeight    float64 `toml:"rating_weight"`
	SentimentWeight float64 `toml:"sentiment_weight"`
	ResponseWeight  float64 `toml:"response_weight"`
}

// AlertsConfig holds alert evaluation configuration.
type AlertsConfig struct {
	Schedule   string                     `toml:"schedule"` // cron spec for scheduled evaluation, empty disables
	Thresholds map[string]ThresholdConfig `toml:"thresholds"`
}

// ThresholdConfig holds the critical/warning bounds for one metric category.
type ThresholdConfig struct {
	Critical float64 `toml:"critical"`
	Warning  float64 `toml:"warning"`
}

// NotifyConfig holds email notification delivery configuration.
type NotifyConfig struct {
	Enabled       bool     `toml:"enabled"`
	SMTPHost      string   `toml:"smtp_host"`
	SMTPPort      int      `toml:"smtp_port"`
	Username      string   `toml:"username"`
	Password      string   `toml:"password"`
	From          string   `toml:"from"`
	Recipients    []string `toml:"recipients"`
	RatePerMinute int      `toml:"rate_per_minute"` // Max emails per minute, 0 uses the default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultBusiness returns the first business in the list (the default), or empty string.
func (c *Config) DefaultBusiness() string {
	if len(c.Businesses) > 0 {
		return c.Businesses[0]
	}
	return ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// PerformanceThresholds converts the configured threshold map into the typed
// domain form. Categories are assumed validated by LoadConfig.
func (c *Config) PerformanceThresholds() models.PerformanceThresholds {
	out := make(models.PerformanceThresholds, len(c.Alerts.Thresholds))
	for name, bounds := range c.Alerts.Thresholds {
		out[models.MetricCategory(name)] = models.ThresholdBounds{
			Critical: bounds.Critical,
			Warning:  bounds.Warning,
		}
	}
	return out
}

// HealthWeights returns the configured health-score weights.
func (c *Config) HealthWeights() models.HealthWeights {
	return models.HealthWeights{
		Rating:    c.Health.RatingWeight,
		Sentiment: c.Health.SentimentWeight,
		Response:  c.Health.ResponseWeight,
	}
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Reviews: AreaConfig{Path: "data/reviews"},
			Alerts:  AreaConfig{Path: "data/alerts"},
		},
		Health: HealthConfig{
			RatingWeight:    0.4,
			SentimentWeight: 0.3,
			ResponseWeight:  0.3,
		},
		Alerts: AlertsConfig{
			Schedule: "0 6 * * *",
			Thresholds: map[string]ThresholdConfig{
				"rating":             {Critical: 2.5, Warning: 3.5},
				"sentiment_negative": {Critical: 40, Warning: 25},
				"response_rate":      {Critical: 20, Warning: 40},
				"volume_drop":        {Critical: 50, Warning: 30},
			},
		},
		Notify: NotifyConfig{
			Enabled:       false,
			SMTPPort:      587,
			RatePerMinute: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Threshold configuration is validated here so that a misconfigured bound
// is rejected at load time rather than misclassifying severities later.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateThresholds(config); err != nil {
		return nil, err
	}
	normalizeHealthWeights(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REVPULSE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("REVPULSE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("REVPULSE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("REVPULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("REVPULSE_DATA_PATH"); path != "" {
		config.Storage.Reviews.Path = filepath.Join(path, "reviews")
		config.Storage.Alerts.Path = filepath.Join(path, "alerts")
	}

	if v := os.Getenv("REVPULSE_SMTP_HOST"); v != "" {
		config.Notify.SMTPHost = v
	}
	if v := os.Getenv("REVPULSE_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Notify.SMTPPort = p
		}
	}
	if v := os.Getenv("REVPULSE_SMTP_USERNAME"); v != "" {
		config.Notify.Username = v
	}
	if v := os.Getenv("REVPULSE_SMTP_PASSWORD"); v != "" {
		config.Notify.Password = v
	}

	if db := os.Getenv("REVPULSE_DEFAULT_BUSINESS"); db != "" {
		// Set as first business (default), preserving any others
		if len(config.Businesses) == 0 {
			config.Businesses = []string{db}
		} else if config.Businesses[0] != db {
			filtered := []string{db}
			for _, b := range config.Businesses {
				if b != db {
					filtered = append(filtered, b)
				}
			}
			config.Businesses = filtered
		}
	}
}

// validateThresholds rejects unknown categories and bounds that are inverted
// for the category's fixed comparison direction.
func validateThresholds(config *Config) error {
	for name, bounds := range config.Alerts.Thresholds {
		category := models.MetricCategory(name)
		if !category.Valid() {
			return fmt.Errorf("unknown threshold category %q", name)
		}
		if category.LowerIsWorse() {
			if bounds.Warning < bounds.Critical {
				return fmt.Errorf("threshold %q: warning (%.2f) must be >= critical (%.2f) for a lower-is-worse metric", name, bounds.Warning, bounds.Critical)
			}
		} else {
			if bounds.Warning > bounds.Critical {
				return fmt.Errorf("threshold %q: warning (%.2f) must be <= critical (%.2f) for a higher-is-worse metric", name, bounds.Warning, bounds.Critical)
			}
		}
	}
	return nil
}

// normalizeHealthWeights rescales the health weights to sum to 1.
// Non-positive totals fall back to the defaults.
func normalizeHealthWeights(config *Config) {
	sum := config.Health.RatingWeight + config.Health.SentimentWeight + config.Health.ResponseWeight
	if sum <= 0 {
		config.Health = NewDefaultConfig().Health
		return
	}
	if math.Abs(sum-1) < 1e-9 {
		return
	}
	config.Health.RatingWeight /= sum
	config.Health.SentimentWeight /= sum
	config.Health.ResponseWeight /= sum
}
