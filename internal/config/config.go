// Package config loads chiron configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all chiron configuration.
type Config struct {
	Providers    ProvidersConfig    `yaml:"providers"`
	Store        StoreConfig        `yaml:"store"`
	Guidance     GuidanceConfig     `yaml:"guidance"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ProvidersConfig configures the assessment fallback tiers.
type ProvidersConfig struct {
	// Primary specialized backend.
	AssessBaseURL string `yaml:"assess_base_url"`
	AssessTimeout string `yaml:"assess_timeout"`

	// Secondary generative backend.
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// StoreConfig configures the assessment document store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// GuidanceConfig points at an optional canned-guidance override file.
type GuidanceConfig struct {
	File string `yaml:"file"`
}

// ConnectivityConfig configures the reachability prober.
type ConnectivityConfig struct {
	ProbeURL      string `yaml:"probe_url"`
	ProbeInterval string `yaml:"probe_interval"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Providers: ProvidersConfig{
			AssessBaseURL: "http://localhost:8002",
			AssessTimeout: "15s",
			GeminiModel:   "gemini-2.0-flash",
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(home, ".chiron", "assessments.db"),
		},
		Connectivity: ConnectivityConfig{
			ProbeURL:      "https://clients3.google.com/generate_204",
			ProbeInterval: "10s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, merges it over the defaults, and
// applies environment overrides. A missing file is not an error; the
// defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variables over file values.
// CHIRON_-prefixed variables win over the generic ones.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Providers.GeminiAPIKey = v
	}
	if v := os.Getenv("CHIRON_GEMINI_API_KEY"); v != "" {
		c.Providers.GeminiAPIKey = v
	}
	if v := os.Getenv("CHIRON_ASSESS_URL"); v != "" {
		c.Providers.AssessBaseURL = v
	}
	if v := os.Getenv("CHIRON_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("CHIRON_GUIDANCE_FILE"); v != "" {
		c.Guidance.File = v
	}
	if v := os.Getenv("CHIRON_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// AssessTimeout parses the primary backend timeout, defaulting to 15s.
func (c *Config) AssessTimeout() time.Duration {
	return parseDuration(c.Providers.AssessTimeout, 15*time.Second)
}

// ProbeInterval parses the connectivity probe interval, defaulting to 10s.
func (c *Config) ProbeInterval() time.Duration {
	return parseDuration(c.Connectivity.ProbeInterval, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// DataDir returns the directory holding the database and logs.
func (c *Config) DataDir() string {
	return filepath.Dir(c.Store.DatabasePath)
}
