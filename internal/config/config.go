package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrInvalidMode     = errors.New("invalid search mode")
	ErrInvalidCategory = errors.New("invalid search category")
	ErrInvalidTimeout  = errors.New("search timeout must be positive")
)

type Config struct {
	Telegram  TelegramConfig
	Isou      IsouConfig
	Log       LogConfig
	Timeouts  TimeoutConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type IsouConfig struct {
	BaseURL  string
	Mode     string
	Category string
	Timeout  time.Duration
	Stream   bool
	Model    string
	Provider string
	Engine   string
	Language string
}

type LogConfig struct {
	Level string
}

type TimeoutConfig struct {
	Query time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: getEnvBoolOrDefault("TELEGRAM_DEBUG", false),
		},
		Isou: IsouConfig{
			BaseURL:  getEnvOrDefault("ISOU_BASE_URL", "https://isou.chat/api/search"),
			Mode:     getEnvOrDefault("ISOU_MODE", "simple"),
			Category: getEnvOrDefault("ISOU_CATEGORY", "general"),
			Timeout:  time.Duration(getEnvIntOrDefault("ISOU_TIMEOUT_SEC", 10)) * time.Second,
			Stream:   getEnvBoolOrDefault("ISOU_STREAM", false),
			Model:    os.Getenv("ISOU_MODEL"),
			Provider: os.Getenv("ISOU_PROVIDER"),
			Engine:   os.Getenv("ISOU_ENGINE"),
			Language: os.Getenv("ISOU_LANGUAGE"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Timeouts: TimeoutConfig{
			Query: time.Duration(getEnvIntOrDefault("QUERY_TIMEOUT_SEC", 30)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if !search.Mode(c.Isou.Mode).IsValid() {
		return ErrInvalidMode
	}
	if !search.Category(c.Isou.Category).IsValid() {
		return ErrInvalidCategory
	}
	if c.Isou.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
