// Package config loads and validates the blogd configuration.
//
// DESIGN: All configuration comes from a YAML file with ${VAR:-default}
// environment expansion. Validation is eager: a config that would fail
// at request time fails at load time instead, before any view is
// touched.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/viewcraft/viewcraft/internal/logging"
)

// Config is the root configuration for the blog demo server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`   // HTTP server settings
	Database DatabaseConfig `yaml:"database"` // sqlite settings
	Logging  logging.Config `yaml:"logging"`  // log level/format/output
	Blog     BlogConfig     `yaml:"blog"`     // list view component settings
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // Port to listen on
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Max time to read request
	WriteTimeout time.Duration `yaml:"write_timeout"` // Max time to write response
}

// DatabaseConfig contains sqlite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // database file, or ":memory:"
}

// BlogConfig declares the components installed on the post list view.
type BlogConfig struct {
	Pagination PaginationConfig `yaml:"pagination"`
	Filter     FilterConfig     `yaml:"filter"`
	Search     SearchConfig     `yaml:"search"`
}

// PaginationConfig mirrors paginate.Options.
type PaginationConfig struct {
	PerPage      int    `yaml:"per_page"`
	VisiblePages int    `yaml:"visible_pages"`
	MaxPages     int    `yaml:"max_pages"`
	Param        string `yaml:"param"`
}

// FilterConfig mirrors filter.Options. Fields maps a column to its
// optional whitelist of allowed values.
type FilterConfig struct {
	Param  string              `yaml:"param"`
	Fields map[string][]string `yaml:"fields"`
}

// SearchConfig mirrors search.Options.
type SearchConfig struct {
	Param     string              `yaml:"param"`
	MinLength int                 `yaml:"min_length"`
	Fields    []SearchFieldConfig `yaml:"fields"`
}

// SearchFieldConfig declares one searchable field.
type SearchFieldConfig struct {
	Name    string   `yaml:"name"`
	Label   string   `yaml:"label"`
	Matches []string `yaml:"matches"`
	Default string   `yaml:"default"`
}

// envPattern matches ${VAR:-default} or ${VAR}.
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes, expanding
// environment variables and validating the result.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the structural settings. Component parameters get
// their own eager validation when the component configs are built at
// startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
