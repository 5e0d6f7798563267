// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config is the full service configuration. Zero values are filled with
// defaults by Load.
type Config struct {
	Port        string
	DatabaseURL string // empty → in-memory store
	RedisURL    string // empty → no cache layer

	TickInterval time.Duration // price simulator period
	NewsInterval time.Duration // news generator period
	Volatility   float64       // bound on per-tick relative change

	MinDeposit  decimal.Decimal
	SeedBalance decimal.Decimal
	NewsWindow  int // recent-news buffer size
}

// Load reads configuration from environment variables, applying defaults
// and validating ranges.
func Load() (Config, error) {
	cfg := Config{
		Port:         envOr("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		TickInterval: time.Second,
		NewsInterval: 15 * time.Second,
		Volatility:   0.02,
		MinDeposit:   decimal.NewFromInt(1000),
		SeedBalance:  decimal.NewFromInt(5000),
		NewsWindow:   20,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("PORT must be a number: %w", err)
	}

	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid TICK_INTERVAL %q", v)
		}
		cfg.TickInterval = d
	}

	if v := os.Getenv("NEWS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid NEWS_INTERVAL %q", v)
		}
		cfg.NewsInterval = d
	}

	if v := os.Getenv("VOLATILITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 1 {
			return cfg, fmt.Errorf("VOLATILITY must be in (0, 1), got %q", v)
		}
		cfg.Volatility = f
	}

	if v := os.Getenv("MIN_DEPOSIT"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return cfg, fmt.Errorf("invalid MIN_DEPOSIT %q", v)
		}
		cfg.MinDeposit = d
	}

	if v := os.Getenv("SEED_BALANCE"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return cfg, fmt.Errorf("invalid SEED_BALANCE %q", v)
		}
		cfg.SeedBalance = d
	}

	if v := os.Getenv("NEWS_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid NEWS_WINDOW %q", v)
		}
		cfg.NewsWindow = n
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
