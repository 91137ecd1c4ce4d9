package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DataPath       string        `env:"DATA_PATH"`
	DataURL        string        `env:"DATA_URL"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	FilterDebounce time.Duration `env:"FILTER_DEBOUNCE" envDefault:"300ms"`
	ChartLimit     int           `env:"CHART_LIMIT" envDefault:"10"`
	LogLevelName   string        `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel       slog.Level    `env:"-"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	lvl, err := parseLevel(cfg.LogLevelName)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = lvl
	if cfg.ChartLimit <= 0 {
		return Config{}, fmt.Errorf("CHART_LIMIT must be positive, got %d", cfg.ChartLimit)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", s)
}
