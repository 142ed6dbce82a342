package config

import (
	"fmt"
	"os"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultTelegramAPIURL  = "https://api.telegram.org"
	defaultTelegramTimeout = 10 * time.Second
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	// Credentials for the /api/notify endpoint. They may be empty: the
	// endpoint then answers with a configuration error instead of failing startup.
	TelegramBotToken string
	TelegramChatID   string

	TelegramAPIURL  string
	TelegramTimeout time.Duration // Upper bound for one sendMessage call
	HTTPAddr        string
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and the given .env
// files (or ./.env when none are given). Missing .env files are ignored and
// godotenv never overrides variables already set in the environment.
func Load(envFiles ...string) (*AppConfig, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &AppConfig{
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:   strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
	}

	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")
	if cfg.TelegramAPIURL == "" {
		cfg.TelegramAPIURL = defaultTelegramAPIURL
	}

	cfg.TelegramTimeout = defaultTelegramTimeout
	if raw := os.Getenv("TELEGRAM_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid TELEGRAM_TIMEOUT: must be positive, got %s", raw)
		}
		cfg.TelegramTimeout = timeout
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// HasTelegramCredentials reports whether both server-side credentials are set.
func (c *AppConfig) HasTelegramCredentials() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
