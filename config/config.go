// Package config provides configuration loading and management for Triplecheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Triplecheck configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Validator ValidatorConfig `yaml:"validator"`
	Query     QueryConfig     `yaml:"query"`
	Server    ServerConfig    `yaml:"server"`
}

// LogConfig configures structured logging
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format selects the handler ("text" or "json")
	Format string `yaml:"format"`
}

// ValidatorConfig configures shape validation
type ValidatorConfig struct {
	// ShapesPath is the default shapes file or glob used when none is given
	ShapesPath string `yaml:"shapes_path"`
	// AdvancedFeatures enables logical operators and shape references in
	// the standalone shape parser
	AdvancedFeatures bool `yaml:"advanced_features"`
}

// QueryConfig configures the query engine
type QueryConfig struct {
	// Endpoint is the SPARQL query endpoint URL
	Endpoint string `yaml:"endpoint"`
	// EnableCaching turns the result cache on
	EnableCaching bool `yaml:"enable_caching"`
	// MaxCacheSize bounds the cache entry count
	MaxCacheSize int `yaml:"max_cache_size"`
	// Timeout is the per-query HTTP timeout
	Timeout time.Duration `yaml:"timeout"`
	// MaxResults is the LIMIT injected onto unbounded SELECT queries
	MaxResults int `yaml:"max_results"`
	// EnableOptimization turns LIMIT injection on
	EnableOptimization bool `yaml:"enable_optimization"`
	// EnableProvenance turns lineage lookups on
	EnableProvenance bool `yaml:"enable_provenance"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Address is the listen address (e.g., ":8080")
	Address string `yaml:"address"`
	// ReadTimeout bounds request header+body reads
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds response writes
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Validator: ValidatorConfig{
			ShapesPath:       "",
			AdvancedFeatures: false,
		},
		Query: QueryConfig{
			Endpoint:           "",
			EnableCaching:      true,
			MaxCacheSize:       100,
			Timeout:            30 * time.Second,
			MaxResults:         1000,
			EnableOptimization: true,
			EnableProvenance:   false,
		},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	if c.Query.MaxCacheSize <= 0 {
		return fmt.Errorf("query.max_cache_size must be positive")
	}
	if c.Query.MaxResults <= 0 {
		return fmt.Errorf("query.max_results must be positive")
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	// Validator
	if other.Validator.ShapesPath != "" {
		c.Validator.ShapesPath = other.Validator.ShapesPath
	}
	if other.Validator.AdvancedFeatures {
		c.Validator.AdvancedFeatures = true
	}

	// Query
	if other.Query.Endpoint != "" {
		c.Query.Endpoint = other.Query.Endpoint
	}
	if other.Query.MaxCacheSize != 0 {
		c.Query.MaxCacheSize = other.Query.MaxCacheSize
	}
	if other.Query.Timeout != 0 {
		c.Query.Timeout = other.Query.Timeout
	}
	if other.Query.MaxResults != 0 {
		c.Query.MaxResults = other.Query.MaxResults
	}

	// Server
	if other.Server.Address != "" {
		c.Server.Address = other.Server.Address
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
}
