// Package common provides shared utilities for Rebal
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Rebal
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Market      MarketConfig    `toml:"market"`
	Rebalance   RebalanceConfig `toml:"rebalance"`
	Agent       AgentConfig     `toml:"agent"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	SessionSecret string `toml:"session_secret"` // HMAC key for the session cookie JWT
}

// StorageConfig holds paths for the two storage areas.
type StorageConfig struct {
	SessionsPath  string `toml:"sessions_path"`  // Conversation histories (BadgerHold)
	PortfolioPath string `toml:"portfolio_path"` // Flat JSON portfolio document
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	RateLimit int    `toml:"rate_limit"` // requests per second to the completion endpoint
}

// MarketConfig holds market clock configuration.
type MarketConfig struct {
	Timezone string `toml:"timezone"` // IANA name of the market timezone
}

// RebalanceConfig holds rebalance calculator tuning.
type RebalanceConfig struct {
	ThresholdPct       float64 `toml:"threshold_pct"`        // drift dead-band, percentage points
	MinTradeAmount     float64 `toml:"min_trade_amount"`     // dollars, trades below this are dropped
	CommissionPerTrade float64 `toml:"commission_per_trade"` // dollars per trade
	SpreadBps          float64 `toml:"spread_bps"`           // bid/ask spread, basis points
}

// AgentConfig holds conversation orchestration settings.
type AgentConfig struct {
	MaxRounds int `toml:"max_rounds"` // tool-call round cap per chat turn
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			SessionSecret: "dev-session-secret-change-in-production",
		},
		Storage: StorageConfig{
			SessionsPath:  "data/sessions",
			PortfolioPath: "data/portfolio.json",
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.0-flash",
				RateLimit: 2,
			},
		},
		Market: MarketConfig{
			Timezone: "America/New_York",
		},
		Rebalance: RebalanceConfig{
			ThresholdPct:       5.0,
			MinTradeAmount:     100.0,
			CommissionPerTrade: 0.0,
			SpreadBps:          2.0,
		},
		Agent: AgentConfig{
			MaxRounds: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REBAL_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("REBAL_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("REBAL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("REBAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("REBAL_SESSIONS_PATH"); path != "" {
		config.Storage.SessionsPath = path
	}

	if path := os.Getenv("REBAL_PORTFOLIO_PATH"); path != "" {
		config.Storage.PortfolioPath = path
	}

	if secret := os.Getenv("REBAL_SESSION_SECRET"); secret != "" {
		config.Server.SessionSecret = secret
	}

	if model := os.Getenv("REBAL_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}

	if tz := os.Getenv("REBAL_MARKET_TIMEZONE"); tz != "" {
		config.Market.Timezone = tz
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables or config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "REBAL_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	// Check environment variables first (highest priority)
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
