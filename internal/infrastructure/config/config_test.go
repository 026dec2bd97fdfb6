package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "lean" || cfg.App.LogLevel != "info" {
		t.Errorf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.Portfolio.Model != "null" {
		t.Errorf("expected null model by default, got %q", cfg.Portfolio.Model)
	}
	if cfg.Storage.SQLite.Path != "data/lean.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Storage.SQLite.Path)
	}
	if cfg.Metrics.Addr != ":9464" {
		t.Errorf("unexpected metrics addr %q", cfg.Metrics.Addr)
	}
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[app]
name = "spy-momentum"
log_level = "debug"

[portfolio]
model = " NULL "

[feed]
enabled = true
ws_url = "ws://localhost:8765/insights"
streams = ["alpha.ema", " alpha.ema ", "", "universe"]

[storage.sqlite]
enabled = true
path = "/tmp/lean.db"

[storage.redis]
enabled = true
addr = "redis:6379"
db = 2
ttl_seconds = 3600
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "spy-momentum" {
		t.Errorf("expected name spy-momentum, got %q", cfg.App.Name)
	}
	if cfg.Portfolio.Model != "null" {
		t.Errorf("expected normalized model, got %q", cfg.Portfolio.Model)
	}
	if len(cfg.Feed.Streams) != 2 || cfg.Feed.Streams[0] != "alpha.ema" || cfg.Feed.Streams[1] != "universe" {
		t.Errorf("unexpected streams %v", cfg.Feed.Streams)
	}
	if !cfg.Storage.SQLite.Enabled || cfg.Storage.SQLite.Path != "/tmp/lean.db" {
		t.Errorf("unexpected sqlite config %+v", cfg.Storage.SQLite)
	}
	if cfg.Storage.Redis.DB != 2 || cfg.Storage.Redis.TTLSeconds != 3600 || cfg.Storage.Redis.Prefix != "lean" {
		t.Errorf("unexpected redis config %+v", cfg.Storage.Redis)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"feed without url":     "[feed]\nenabled = true\n",
		"postgres without dsn": "[storage.postgres]\nenabled = true\n",
		"negative redis ttl":   "[storage.redis]\nttl_seconds = -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
