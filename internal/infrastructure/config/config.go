package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		Name     string `toml:"name"`
		LogLevel string `toml:"log_level"`
		Color    bool   `toml:"color"`
	} `toml:"app"`

	Portfolio struct {
		Model string `toml:"model"`
	} `toml:"portfolio"`

	Feed struct {
		Enabled bool     `toml:"enabled"`
		WsURL   string   `toml:"ws_url"` // e.g. ws://localhost:8765/insights
		Streams []string `toml:"streams"`
	} `toml:"feed"`

	Storage struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`

		Redis struct {
			Enabled    bool   `toml:"enabled"`
			Addr       string `toml:"addr"`
			Password   string `toml:"password"`
			DB         int    `toml:"db"`
			Prefix     string `toml:"prefix"`
			TTLSeconds int    `toml:"ttl_seconds"`
			Stream     string `toml:"stream"`
			Channel    string `toml:"channel"`
		} `toml:"redis"`
	} `toml:"storage"`

	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"metrics"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.Name) == "" {
		cfg.App.Name = "lean"
	}
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.Portfolio.Model) == "" {
		cfg.Portfolio.Model = "null"
	}
	if strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		cfg.Storage.SQLite.Path = "data/lean.db"
	}
	if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		cfg.Storage.Redis.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Storage.Redis.Prefix) == "" {
		cfg.Storage.Redis.Prefix = "lean"
	}
	if strings.TrimSpace(cfg.Metrics.Addr) == "" {
		cfg.Metrics.Addr = ":9464"
	}
}

func validate(cfg *Config) error {
	cfg.Portfolio.Model = strings.ToLower(strings.TrimSpace(cfg.Portfolio.Model))
	cfg.Feed.Streams = normalizeStreams(cfg.Feed.Streams)

	if cfg.Feed.Enabled && strings.TrimSpace(cfg.Feed.WsURL) == "" {
		return errors.New("feed.ws_url empty but enabled")
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	if cfg.Storage.Redis.TTLSeconds < 0 {
		return errors.New("storage.redis.ttl_seconds is negative")
	}
	return nil
}

func normalizeStreams(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.TrimSpace(s)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
