package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("expected 1s tick interval, got %s", cfg.TickInterval)
	}
	if cfg.Volatility != 0.02 {
		t.Errorf("expected volatility 0.02, got %f", cfg.Volatility)
	}
	if !cfg.MinDeposit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected min deposit 1000, got %s", cfg.MinDeposit)
	}
	if !cfg.SeedBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected seed balance 5000, got %s", cfg.SeedBalance)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("NEWS_INTERVAL", "5s")
	t.Setenv("VOLATILITY", "0.05")
	t.Setenv("MIN_DEPOSIT", "100")
	t.Setenv("NEWS_WINDOW", "50")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.TickInterval)
	}
	if cfg.NewsInterval != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.NewsInterval)
	}
	if cfg.Volatility != 0.05 {
		t.Errorf("expected 0.05, got %f", cfg.Volatility)
	}
	if !cfg.MinDeposit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", cfg.MinDeposit)
	}
	if cfg.NewsWindow != 50 {
		t.Errorf("expected 50, got %d", cfg.NewsWindow)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"PORT":          "not-a-number",
		"TICK_INTERVAL": "-1s",
		"VOLATILITY":    "1.5",
		"MIN_DEPOSIT":   "-10",
		"NEWS_WINDOW":   "0",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := config.Load(); err == nil {
				t.Errorf("expected error for %s=%q", key, value)
			}
		})
	}
}
