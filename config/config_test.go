package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Query.MaxCacheSize != 100 {
		t.Errorf("expected default max cache size 100, got %d", cfg.Query.MaxCacheSize)
	}
	if cfg.Query.MaxResults != 1000 {
		t.Errorf("expected default max results 1000, got %d", cfg.Query.MaxResults)
	}
	if !cfg.Query.EnableCaching {
		t.Error("expected caching enabled by default")
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("expected default server address :8080, got %s", cfg.Server.Address)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "zero cache size",
			modify:  func(c *Config) { c.Query.MaxCacheSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative max results",
			modify:  func(c *Config) { c.Query.MaxResults = -5 },
			wantErr: true,
		},
		{
			name:    "missing server address",
			modify:  func(c *Config) { c.Server.Address = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
log:
  level: "debug"
  format: "json"
validator:
  shapes_path: "shapes/*.nq"
query:
  endpoint: "http://test:7200/repositories/kg"
  max_cache_size: 50
  timeout: 10s
  max_results: 200
server:
  address: ":9090"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Validator.ShapesPath != "shapes/*.nq" {
		t.Errorf("expected shapes path shapes/*.nq, got %s", cfg.Validator.ShapesPath)
	}
	if cfg.Query.Endpoint != "http://test:7200/repositories/kg" {
		t.Errorf("expected query endpoint http://test:7200/repositories/kg, got %s", cfg.Query.Endpoint)
	}
	if cfg.Query.MaxCacheSize != 50 {
		t.Errorf("expected max cache size 50, got %d", cfg.Query.MaxCacheSize)
	}
	if cfg.Query.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Query.Timeout)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("expected server address :9090, got %s", cfg.Server.Address)
	}
	// Unset fields keep their defaults
	if !cfg.Query.EnableCaching {
		t.Error("expected caching to remain enabled")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Log: LogConfig{
			Level: "warn",
		},
		Query: QueryConfig{
			Endpoint: "http://override:7200/repositories/kg",
		},
	}

	base.Merge(override)

	if base.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", base.Log.Level)
	}
	// Format should remain from base since override didn't set it
	if base.Log.Format != "text" {
		t.Errorf("expected format to remain default, got %s", base.Log.Format)
	}
	if base.Query.Endpoint != "http://override:7200/repositories/kg" {
		t.Errorf("expected overridden query endpoint, got %s", base.Query.Endpoint)
	}
	if base.Query.MaxResults != 1000 {
		t.Errorf("expected max results to remain default, got %d", base.Query.MaxResults)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Query.Endpoint = "http://saved:7200/repositories/kg"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Query.Endpoint != "http://saved:7200/repositories/kg" {
		t.Errorf("expected saved endpoint, got %s", loaded.Query.Endpoint)
	}
}
