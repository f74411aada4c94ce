package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: development
server:
  port: 8080
  read_timeout: 5s
  write_timeout: 10s
  shutdown_timeout: 15s
backend:
  type: clickhouse
  batch_size: 500
  batch_timeout: 2s
kafka:
  brokers: ["localhost:9092"]
  topic: photometry.points
feed:
  api_key: test-key
  websocket_url: wss://feed.example.com/ws
  targets: ["KIC-1", "KIC-2"]
  reconnect_delay: 5s
  ping_interval: 30s
catalog:
  url: http://localhost:9000
  timeout: 3s
fitter:
  workers: 4
  cache_ttl: 30s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Backend.Type != "clickhouse" {
		t.Fatalf("backend = %q", cfg.Backend.Type)
	}
	if len(cfg.Feed.Targets) != 2 || cfg.Feed.Targets[0] != "KIC-1" {
		t.Fatalf("targets = %v", cfg.Feed.Targets)
	}
	if cfg.Feed.ReconnectDelay != 5*time.Second {
		t.Fatalf("reconnect_delay = %v", cfg.Feed.ReconnectDelay)
	}
	if cfg.Fitter.Workers != 4 {
		t.Fatalf("fitter.workers = %d", cfg.Fitter.Workers)
	}
	if cfg.Catalog.URL != "http://localhost:9000" {
		t.Fatalf("catalog.url = %q", cfg.Catalog.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Environment = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty environment")
	}

	cfg = base()
	cfg.Backend.Type = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}

	cfg = base()
	cfg.Feed.Targets = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty targets")
	}

	cfg = base()
	cfg.Feed.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty api key")
	}

	cfg = base()
	cfg.Fitter.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative workers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FEED_API_KEY", "env-key")
	t.Setenv("TARGETS", "KIC-9,KIC-10")
	t.Setenv("BACKEND", "kafka")
	t.Setenv("CATALOG_URL", "http://catalog:9000")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.Feed.APIKey != "env-key" {
		t.Fatalf("api key not overridden: %q", cfg.Feed.APIKey)
	}
	if len(cfg.Feed.Targets) != 2 || cfg.Feed.Targets[1] != "KIC-10" {
		t.Fatalf("targets not overridden: %v", cfg.Feed.Targets)
	}
	if cfg.Backend.Type != "kafka" {
		t.Fatalf("backend not overridden: %q", cfg.Backend.Type)
	}
	if cfg.Catalog.URL != "http://catalog:9000" {
		t.Fatalf("catalog url not overridden: %q", cfg.Catalog.URL)
	}
}
