// Package config provides configuration management for jobharvest.
// It handles loading, validation, and access to configuration values from
// YAML files and environment variables via viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Scanner defaults.
const (
	DefaultScanBatchSize     = 10
	DefaultInvalidThreshold  = 100
	DefaultProbeTimeout      = 10 * time.Second
	DefaultBootstrapRetries  = 3
	DefaultBootstrapTimeout  = 30 * time.Second
	DefaultHarvestBatchSize  = 10
	DefaultFetchTimeout      = 15 * time.Second
	DefaultScheduleSpec      = "0 6 * * *"
	DefaultHealthAddr        = ":8099"
	DefaultOutputPath        = "jobs.json"
)

var (
	// ErrMissingBaseURL is returned when the source base URL is not configured.
	ErrMissingBaseURL = errors.New("source base URL is required")

	// ErrMissingDatabaseURL is returned when the database URL is not configured.
	ErrMissingDatabaseURL = errors.New("database URL is required (set DATABASE_URL)")
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetSourceConfig returns the source site configuration.
	GetSourceConfig() *SourceConfig
	// GetScannerConfig returns the ID scanner configuration.
	GetScannerConfig() *ScannerConfig
	// GetHarvesterConfig returns the harvest pipeline configuration.
	GetHarvesterConfig() *HarvesterConfig
	// GetDatabaseConfig returns the database configuration.
	GetDatabaseConfig() *DatabaseConfig
	// GetScheduleConfig returns the schedule daemon configuration.
	GetScheduleConfig() *ScheduleConfig
	// Validate validates the configuration for the scrape phase.
	Validate() error
	// ValidateImport validates the configuration for the import phase.
	ValidateImport() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// SourceConfig describes the scraped site and how identifiers map to URLs.
type SourceConfig struct {
	// BaseURL is the site root, e.g. "https://www.devjobsindia.org".
	BaseURL string
	// ListingPath is the path of the listing/search page used for bootstrap.
	ListingPath string
	// DetailPath is a printf template turning an identifier into a detail path.
	DetailPath string
	// UserAgent is sent on every request.
	UserAgent string
}

// ScannerConfig holds the ID scanner knobs.
type ScannerConfig struct {
	// BatchSize is the number of ids probed concurrently per batch.
	BatchSize int
	// InvalidThreshold stops the scan after this many consecutive invalid ids.
	InvalidThreshold int
	// ProbeTimeout bounds each probe request.
	ProbeTimeout time.Duration
	// BootstrapRetries bounds the start-id discovery attempts.
	BootstrapRetries int
	// BootstrapTimeout bounds each bootstrap navigation request.
	BootstrapTimeout time.Duration
	// FallbackStartID is used when bootstrap discovery fails entirely.
	FallbackStartID int
}

// HarvesterConfig holds the harvest pipeline knobs.
type HarvesterConfig struct {
	// BatchSize is the number of detail pages fetched concurrently per batch.
	BatchSize int
	// FetchTimeout bounds each detail fetch.
	FetchTimeout time.Duration
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	// URL is a lib/pq connection string or DSN.
	URL string
}

// ScheduleConfig holds the schedule daemon settings.
type ScheduleConfig struct {
	// Spec is the cron expression for periodic runs.
	Spec string
	// HealthAddr is the listen address for the health endpoint.
	HealthAddr string
	// OutputPath is where scheduled runs write the snapshot artifact.
	OutputPath string
}

// Config represents the application configuration.
type Config struct {
	Source    *SourceConfig
	Scanner   *ScannerConfig
	Harvester *HarvesterConfig
	Database  *DatabaseConfig
	Schedule  *ScheduleConfig
}

// LoadConfig builds a Config from the current viper state.
// Viper initialization (files, env bindings, defaults) happens in cmd.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Source: &SourceConfig{
			BaseURL:     viper.GetString("source.base_url"),
			ListingPath: viper.GetString("source.listing_path"),
			DetailPath:  viper.GetString("source.detail_path"),
			UserAgent:   viper.GetString("source.user_agent"),
		},
		Scanner: &ScannerConfig{
			BatchSize:        viper.GetInt("scanner.batch_size"),
			InvalidThreshold: viper.GetInt("scanner.invalid_threshold"),
			ProbeTimeout:     viper.GetDuration("scanner.probe_timeout"),
			BootstrapRetries: viper.GetInt("scanner.bootstrap_retries"),
			BootstrapTimeout: viper.GetDuration("scanner.bootstrap_timeout"),
			FallbackStartID:  viper.GetInt("scanner.fallback_start_id"),
		},
		Harvester: &HarvesterConfig{
			BatchSize:    viper.GetInt("harvester.batch_size"),
			FetchTimeout: viper.GetDuration("harvester.fetch_timeout"),
		},
		Database: &DatabaseConfig{
			URL: viper.GetString("database.url"),
		},
		Schedule: &ScheduleConfig{
			Spec:       viper.GetString("schedule.spec"),
			HealthAddr: viper.GetString("schedule.health_addr"),
			OutputPath: viper.GetString("schedule.output_path"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills zero values with production-safe defaults.
func (c *Config) applyDefaults() {
	if c.Scanner.BatchSize <= 0 {
		c.Scanner.BatchSize = DefaultScanBatchSize
	}
	if c.Scanner.InvalidThreshold <= 0 {
		c.Scanner.InvalidThreshold = DefaultInvalidThreshold
	}
	if c.Scanner.ProbeTimeout <= 0 {
		c.Scanner.ProbeTimeout = DefaultProbeTimeout
	}
	if c.Scanner.BootstrapRetries <= 0 {
		c.Scanner.BootstrapRetries = DefaultBootstrapRetries
	}
	if c.Scanner.BootstrapTimeout <= 0 {
		c.Scanner.BootstrapTimeout = DefaultBootstrapTimeout
	}
	if c.Harvester.BatchSize <= 0 {
		c.Harvester.BatchSize = DefaultHarvestBatchSize
	}
	if c.Harvester.FetchTimeout <= 0 {
		c.Harvester.FetchTimeout = DefaultFetchTimeout
	}
	if c.Schedule.Spec == "" {
		c.Schedule.Spec = DefaultScheduleSpec
	}
	if c.Schedule.HealthAddr == "" {
		c.Schedule.HealthAddr = DefaultHealthAddr
	}
	if c.Schedule.OutputPath == "" {
		c.Schedule.OutputPath = DefaultOutputPath
	}
}

// GetSourceConfig returns the source site configuration.
func (c *Config) GetSourceConfig() *SourceConfig {
	return c.Source
}

// GetScannerConfig returns the ID scanner configuration.
func (c *Config) GetScannerConfig() *ScannerConfig {
	return c.Scanner
}

// GetHarvesterConfig returns the harvest pipeline configuration.
func (c *Config) GetHarvesterConfig() *HarvesterConfig {
	return c.Harvester
}

// GetDatabaseConfig returns the database configuration.
func (c *Config) GetDatabaseConfig() *DatabaseConfig {
	return c.Database
}

// GetScheduleConfig returns the schedule daemon configuration.
func (c *Config) GetScheduleConfig() *ScheduleConfig {
	return c.Schedule
}

// Validate validates the configuration for the scrape phase.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Source.DetailPath == "" {
		return errors.New("source detail path template is required")
	}
	if c.Scanner.FallbackStartID < 0 {
		return fmt.Errorf("fallback start id must be non-negative, got %d", c.Scanner.FallbackStartID)
	}
	return nil
}

// ValidateImport validates the configuration for the import phase.
// A missing database URL is fatal here and only here.
func (c *Config) ValidateImport() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}
