//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-etl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-etl.
type Config struct {
	// Store is the path to the SQLite database file.
	Store string `mapstructure:"store"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// ETL holds configuration for the etl subcommand.
	ETL ETLConfig `mapstructure:"etl"`

	// Query holds configuration for the query subcommand.
	Query QueryConfig `mapstructure:"query"`

	// Sample holds configuration for the sample subcommand.
	Sample SampleConfig `mapstructure:"sample"`
}

// ETLConfig holds configuration for the normalization pipeline.
type ETLConfig struct {
	// Source is the path to the raw transactional export (.csv or .xlsx).
	Source string `mapstructure:"source"`

	// BatchSize is the number of staging rows per bulk insert statement.
	BatchSize int `mapstructure:"batch_size"`

	// DropExisting drops the normalized schema before loading.
	DropExisting bool `mapstructure:"drop_existing"`

	// Force reloads even when the store already holds a prior load.
	Force bool `mapstructure:"force"`
}

// QueryConfig holds configuration for analytical queries.
type QueryConfig struct {
	// Start is the inclusive start date (YYYY-MM-DD) for ranged queries.
	Start string `mapstructure:"start"`

	// End is the inclusive end date (YYYY-MM-DD) for ranged queries.
	End string `mapstructure:"end"`

	// TopN limits ranking queries (top products, RFM).
	TopN int `mapstructure:"top_n"`
}

// SampleConfig holds configuration for synthetic source file generation.
type SampleConfig struct {
	// Out is the path of the generated source file.
	Out string `mapstructure:"out"`

	// Rows is the number of invoice lines to generate.
	Rows int `mapstructure:"rows"`

	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`

	// CancelledPct is the fraction of rows carrying a cancellation invoice.
	CancelledPct float64 `mapstructure:"cancelled_pct"`

	// DirtyPct is the fraction of rows with missing or malformed fields.
	DirtyPct float64 `mapstructure:"dirty_pct"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store:    "online_retail.db",
		LogLevel: "info",
		ETL: ETLConfig{
			BatchSize:    200,
			DropExisting: false,
			Force:        false,
		},
		Query: QueryConfig{
			TopN: 10,
		},
		Sample: SampleConfig{
			Out:          "online_retail_sample.csv",
			Rows:         5000,
			CancelledPct: 0.02,
			DirtyPct:     0.03,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-etl.yaml
// 3. ~/.config/retail-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("retail-etl")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-etl"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Store == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}

// ValidateETL checks configuration required for the etl command.
func (c *Config) ValidateETL() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ETL.Source == "" {
		return fmt.Errorf("source file is required for etl")
	}
	if c.ETL.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateQuery checks configuration required for the query command.
func (c *Config) ValidateQuery() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Query.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1")
	}
	return nil
}

// ValidateSample checks configuration required for the sample command.
func (c *Config) ValidateSample() error {
	if c.Sample.Out == "" {
		return fmt.Errorf("output path is required for sample")
	}
	if c.Sample.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Sample.CancelledPct < 0 || c.Sample.CancelledPct > 1 {
		return fmt.Errorf("cancelled_pct must be between 0 and 1")
	}
	if c.Sample.DirtyPct < 0 || c.Sample.DirtyPct > 1 {
		return fmt.Errorf("dirty_pct must be between 0 and 1")
	}
	return nil
}
