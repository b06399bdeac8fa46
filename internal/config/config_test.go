package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	// Check default values
	if cfg.Store != "online_retail.db" {
		t.Errorf("Expected Store 'online_retail.db', got '%s'", cfg.Store)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	// ETL defaults
	if cfg.ETL.BatchSize != 200 {
		t.Errorf("Expected ETL.BatchSize 200, got %d", cfg.ETL.BatchSize)
	}
	if cfg.ETL.DropExisting != false {
		t.Error("Expected ETL.DropExisting false")
	}
	if cfg.ETL.Force != false {
		t.Error("Expected ETL.Force false")
	}

	// Query defaults
	if cfg.Query.TopN != 10 {
		t.Errorf("Expected Query.TopN 10, got %d", cfg.Query.TopN)
	}

	// Sample defaults
	if cfg.Sample.Out != "online_retail_sample.csv" {
		t.Errorf("Expected Sample.Out 'online_retail_sample.csv', got '%s'", cfg.Sample.Out)
	}
	if cfg.Sample.Rows != 5000 {
		t.Errorf("Expected Sample.Rows 5000, got %d", cfg.Sample.Rows)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name:      "valid config",
			cfg:       &Config{Store: "retail.db"},
			wantError: false,
		},
		{
			name:      "missing store",
			cfg:       &Config{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestConfigValidateETL(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid etl config",
			cfg: &Config{
				Store: "retail.db",
				ETL: ETLConfig{
					Source:    "export.csv",
					BatchSize: 200,
				},
			},
			wantError: false,
		},
		{
			name: "missing source",
			cfg: &Config{
				Store: "retail.db",
				ETL: ETLConfig{
					BatchSize: 200,
				},
			},
			wantError: true,
		},
		{
			name: "missing store",
			cfg: &Config{
				ETL: ETLConfig{
					Source:    "export.csv",
					BatchSize: 200,
				},
			},
			wantError: true,
		},
		{
			name: "zero batch size",
			cfg: &Config{
				Store: "retail.db",
				ETL: ETLConfig{
					Source:    "export.csv",
					BatchSize: 0,
				},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateETL()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestConfigValidateQuery(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid query config",
			cfg: &Config{
				Store: "retail.db",
				Query: QueryConfig{TopN: 10},
			},
			wantError: false,
		},
		{
			name: "zero top_n",
			cfg: &Config{
				Store: "retail.db",
				Query: QueryConfig{TopN: 0},
			},
			wantError: true,
		},
		{
			name: "missing store",
			cfg: &Config{
				Query: QueryConfig{TopN: 10},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateQuery()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestConfigValidateSample(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid sample config",
			cfg: &Config{
				Sample: SampleConfig{
					Out:          "sample.csv",
					Rows:         100,
					CancelledPct: 0.02,
					DirtyPct:     0.03,
				},
			},
			wantError: false,
		},
		{
			name: "missing out path",
			cfg: &Config{
				Sample: SampleConfig{Rows: 100},
			},
			wantError: true,
		},
		{
			name: "zero rows",
			cfg: &Config{
				Sample: SampleConfig{Out: "sample.csv", Rows: 0},
			},
			wantError: true,
		},
		{
			name: "cancelled_pct out of range",
			cfg: &Config{
				Sample: SampleConfig{Out: "sample.csv", Rows: 100, CancelledPct: 1.5},
			},
			wantError: true,
		},
		{
			name: "negative dirty_pct",
			cfg: &Config{
				Sample: SampleConfig{Out: "sample.csv", Rows: 100, DirtyPct: -0.1},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateSample()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "retail-etl.yaml")

	configContent := `
store: "/var/lib/retail/retail.db"
log_level: "debug"

etl:
  source: "/data/Online_Retail.xlsx"
  batch_size: 500
  drop_existing: true
  force: true

query:
  start: "2010-12-01"
  end: "2011-12-09"
  top_n: 25

sample:
  out: "/tmp/sample.csv"
  rows: 20000
  seed: 42
  cancelled_pct: 0.05
  dirty_pct: 0.1
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Store != "/var/lib/retail/retail.db" {
		t.Errorf("Store mismatch: %s", cfg.Store)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel mismatch: %s", cfg.LogLevel)
	}
	if cfg.ETL.Source != "/data/Online_Retail.xlsx" {
		t.Errorf("ETL.Source mismatch: %s", cfg.ETL.Source)
	}
	if cfg.ETL.BatchSize != 500 {
		t.Errorf("ETL.BatchSize mismatch: %d", cfg.ETL.BatchSize)
	}
	if cfg.ETL.DropExisting != true {
		t.Error("ETL.DropExisting mismatch")
	}
	if cfg.ETL.Force != true {
		t.Error("ETL.Force mismatch")
	}
	if cfg.Query.Start != "2010-12-01" {
		t.Errorf("Query.Start mismatch: %s", cfg.Query.Start)
	}
	if cfg.Query.End != "2011-12-09" {
		t.Errorf("Query.End mismatch: %s", cfg.Query.End)
	}
	if cfg.Query.TopN != 25 {
		t.Errorf("Query.TopN mismatch: %d", cfg.Query.TopN)
	}
	if cfg.Sample.Rows != 20000 {
		t.Errorf("Sample.Rows mismatch: %d", cfg.Sample.Rows)
	}
	if cfg.Sample.Seed != 42 {
		t.Errorf("Sample.Seed mismatch: %d", cfg.Sample.Seed)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	// When a specific config file is provided but doesn't exist, Load returns an error
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load should error when specified config file doesn't exist")
	}
}

func TestLoadConfigDefaultPath(t *testing.T) {
	// When no config file is specified (empty string), Load returns defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load should not error with empty path, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load should return default config")
	}
	// Should have default values
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `
store: [invalid yaml
  that: won't parse
`
	err := os.WriteFile(configPath, []byte(invalidContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}
