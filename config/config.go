package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default limits, matching what PagineGialle tolerates without throttling
const (
	DefaultPageLimit    = 20
	DefaultRequestBatch = 50
	DefaultTimeoutSecs  = 30
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ScraperConfig holds scrape limits and result filters
type ScraperConfig struct {
	PageLimit    int    `yaml:"page_limit"`
	RequestBatch int    `yaml:"request_batch"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
	UserAgent    string `yaml:"user_agent"`
	Output       string `yaml:"output"`

	Filters struct {
		RequirePhone bool   `yaml:"require_phone"`
		Keyword      string `yaml:"keyword"`
	} `yaml:"filters"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*ScraperConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}
	if cfg.RequestBatch <= 0 {
		cfg.RequestBatch = DefaultRequestBatch
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = DefaultTimeoutSecs
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *ScraperConfig {
	cfg := &ScraperConfig{
		PageLimit:    DefaultPageLimit,
		RequestBatch: DefaultRequestBatch,
		TimeoutSecs:  DefaultTimeoutSecs,
		UserAgent:    DefaultUserAgent,
		Output:       "output",
	}
	cfg.Filters.RequirePhone = true
	return cfg
}
