package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Clients.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("expected default model gemini-2.0-flash, got %s", cfg.Clients.Gemini.Model)
	}
	if cfg.Market.Timezone != "America/New_York" {
		t.Errorf("expected default timezone America/New_York, got %s", cfg.Market.Timezone)
	}
	if cfg.Rebalance.ThresholdPct != 5.0 {
		t.Errorf("expected default threshold 5.0, got %.1f", cfg.Rebalance.ThresholdPct)
	}
	if cfg.Rebalance.MinTradeAmount != 100.0 {
		t.Errorf("expected default min trade 100.0, got %.1f", cfg.Rebalance.MinTradeAmount)
	}
	if cfg.Agent.MaxRounds != 8 {
		t.Errorf("expected default max rounds 8, got %d", cfg.Agent.MaxRounds)
	}
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rebal.toml")
	content := `
environment = "production"

[server]
port = 9090

[rebalance]
threshold_pct = 3.0

[agent]
max_rounds = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Rebalance.ThresholdPct != 3.0 {
		t.Errorf("expected threshold 3.0, got %.1f", cfg.Rebalance.ThresholdPct)
	}
	if cfg.Agent.MaxRounds != 4 {
		t.Errorf("expected max rounds 4, got %d", cfg.Agent.MaxRounds)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	// Untouched sections keep defaults
	if cfg.Rebalance.MinTradeAmount != 100.0 {
		t.Errorf("expected default min trade preserved, got %.1f", cfg.Rebalance.MinTradeAmount)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REBAL_PORT", "7070")
	t.Setenv("REBAL_LOG_LEVEL", "debug")
	t.Setenv("REBAL_GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("REBAL_MARKET_TIMEZONE", "Australia/Sydney")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Clients.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("expected env model override, got %s", cfg.Clients.Gemini.Model)
	}
	if cfg.Market.Timezone != "Australia/Sydney" {
		t.Errorf("expected env timezone override, got %s", cfg.Market.Timezone)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REBAL_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	// Config fallback when no env vars are set
	key, err := ResolveAPIKey("gemini_api_key", "config-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "config-key" {
		t.Errorf("expected config fallback, got %s", key)
	}

	// Env var wins over config
	t.Setenv("GEMINI_API_KEY", "env-key")
	key, err = ResolveAPIKey("gemini_api_key", "config-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "env-key" {
		t.Errorf("expected env key to win, got %s", key)
	}
}

func TestResolveAPIKey_NotFound(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REBAL_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := ResolveAPIKey("gemini_api_key", ""); err == nil {
		t.Error("expected error for unresolvable key")
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{-16.944444, -16.94},
		{0, 0},
		{33.055555, 33.06},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
