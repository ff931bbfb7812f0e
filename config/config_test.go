package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.PageLimit != DefaultPageLimit {
		t.Errorf("PageLimit = %d, want %d", cfg.PageLimit, DefaultPageLimit)
	}
	if cfg.RequestBatch != DefaultRequestBatch {
		t.Errorf("RequestBatch = %d, want %d", cfg.RequestBatch, DefaultRequestBatch)
	}
	if cfg.Output != "output" {
		t.Errorf("Output = %q, want %q", cfg.Output, "output")
	}
	if !cfg.Filters.RequirePhone {
		t.Error("RequirePhone should default to true")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
page_limit: 5
request_batch: 10
output: toscana_ristoranti
filters:
  require_phone: false
  keyword: pizza
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.PageLimit != 5 {
		t.Errorf("PageLimit = %d, want 5", cfg.PageLimit)
	}
	if cfg.RequestBatch != 10 {
		t.Errorf("RequestBatch = %d, want 10", cfg.RequestBatch)
	}
	if cfg.Output != "toscana_ristoranti" {
		t.Errorf("Output = %q, want %q", cfg.Output, "toscana_ristoranti")
	}
	if cfg.Filters.RequirePhone {
		t.Error("RequirePhone should be false")
	}
	if cfg.Filters.Keyword != "pizza" {
		t.Errorf("Keyword = %q, want %q", cfg.Filters.Keyword, "pizza")
	}
	// unset fields keep their defaults
	if cfg.TimeoutSecs != DefaultTimeoutSecs {
		t.Errorf("TimeoutSecs = %d, want default %d", cfg.TimeoutSecs, DefaultTimeoutSecs)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_limit: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML")
	}
}
