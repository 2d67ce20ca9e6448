package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
search:
  limit: 40
  timeout_seconds: 60
  min_delay_ms: 100
  max_delay_ms: 200
crawl:
  frontier_capacity: 25
  max_visits: 200
  respect_robots: true
  timeout_seconds: 20
validation:
  max_size_mb: 25
  prefix_bytes: 4096
  timeout_seconds: 10
  deep_verify: false
  min_delay_ms: 10
  max_delay_ms: 20
  concurrency: 4
engine:
  base_url: https://searx.internal
  api_key: secret
collection:
  path: out/pdfs.json
  categories_path: out/categories.json
metrics:
  enabled: true
  addr: ":2112"
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Search.Limit != 40 {
		t.Fatalf("expected search limit 40, got %d", cfg.Search.Limit)
	}
	if !cfg.Crawl.RespectRobots || cfg.Crawl.FrontierCapacity != 25 {
		t.Fatalf("expected crawl overrides to apply: %+v", cfg.Crawl)
	}
	if cfg.Validation.DeepVerify || cfg.Validation.Concurrency != 4 {
		t.Fatalf("expected validation overrides to apply: %+v", cfg.Validation)
	}
	if cfg.Engine.BaseURL != "https://searx.internal" || cfg.Engine.APIKey != "secret" {
		t.Fatalf("expected engine settings to be loaded: %+v", cfg.Engine)
	}
	if cfg.Collection.Path != "out/pdfs.json" {
		t.Fatalf("expected collection path override, got %q", cfg.Collection.Path)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":2112" {
		t.Fatalf("expected metrics overrides to apply: %+v", cfg.Metrics)
	}
	if cfg.Logging.Development {
		t.Fatalf("expected development logging disabled")
	}

	minD, maxD := cfg.SearchDelayBounds()
	if minD != 100*time.Millisecond || maxD != 200*time.Millisecond {
		t.Fatalf("unexpected search delay bounds: %v %v", minD, maxD)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Search.Limit != 20 {
		t.Fatalf("expected default search limit 20, got %d", cfg.Search.Limit)
	}
	if !cfg.Validation.DeepVerify {
		t.Fatalf("expected deep verification on by default")
	}
	if cfg.Crawl.RespectRobots {
		t.Fatalf("expected robots enforcement off by default")
	}
	if cfg.Validation.MaxSizeMB != 50 {
		t.Fatalf("expected default size cap 50MB, got %v", cfg.Validation.MaxSizeMB)
	}
	if cfg.Collection.Path != "data/pdfs.json" {
		t.Fatalf("expected default collection path, got %q", cfg.Collection.Path)
	}

	minD, maxD := cfg.ValidationDelayBounds()
	if minD != 500*time.Millisecond || maxD != 1500*time.Millisecond {
		t.Fatalf("unexpected validation delay bounds: %v %v", minD, maxD)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero search limit", func(c *Config) { c.Search.Limit = 0 }},
		{"inverted search delays", func(c *Config) { c.Search.MinDelayMs = 500; c.Search.MaxDelayMs = 100 }},
		{"inverted validation delays", func(c *Config) { c.Validation.MinDelayMs = 500; c.Validation.MaxDelayMs = 100 }},
		{"zero size cap", func(c *Config) { c.Validation.MaxSizeMB = 0 }},
		{"zero prefix", func(c *Config) { c.Validation.PrefixBytes = 0 }},
		{"zero concurrency", func(c *Config) { c.Validation.Concurrency = 0 }},
		{"zero frontier", func(c *Config) { c.Crawl.FrontierCapacity = 0 }},
		{"zero visits", func(c *Config) { c.Crawl.MaxVisits = 0 }},
		{"missing collection path", func(c *Config) { c.Collection.Path = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
