// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP listener settings for the webhook intake.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the cross-athlete SQLite store location.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string
}

// StorageConfig holds the per-athlete document root.
type StorageConfig struct {
	AthletesDir string
}

// WebhookConfig holds purchase-event intake settings.
type WebhookConfig struct {
	Secret             string
	RateLimitPerDay    int
	DispatchConcurrency int
}

// NotifyConfig holds outbound delivery-notification settings.
type NotifyConfig struct {
	ShoutrrrURL string
	FromEmail   string
}

// Config is the fully assembled process configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Webhook  WebhookConfig
	Notify   NotifyConfig
	LogLevel string
}

// Load assembles Config from the environment, loading a .env file first if
// present. Missing optional values fall back to documented defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("CYCLECOACH_PORT", 8080),
			ReadTimeout:     getEnvDuration("CYCLECOACH_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("CYCLECOACH_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("CYCLECOACH_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Path:           getEnv("CYCLECOACH_DB_PATH", "cyclecoach.db"),
			MigrationsPath: getEnv("CYCLECOACH_MIGRATIONS_PATH", "migrations"),
		},
		Storage: StorageConfig{
			AthletesDir: getEnv("CYCLECOACH_ATHLETES_DIR", "athletes"),
		},
		Webhook: WebhookConfig{
			Secret:              getEnv("CYCLECOACH_WEBHOOK_SECRET", ""),
			RateLimitPerDay:     getEnvInt("CYCLECOACH_RATE_LIMIT_PER_DAY", 5),
			DispatchConcurrency: getEnvInt("CYCLECOACH_DISPATCH_CONCURRENCY", runtime.NumCPU()),
		},
		Notify: NotifyConfig{
			ShoutrrrURL: getEnv("CYCLECOACH_SHOUTRRR_URL", ""),
			FromEmail:   getEnv("CYCLECOACH_FROM_EMAIL", "plans@cyclecoach.example"),
		},
		LogLevel: getEnv("CYCLECOACH_LOG_LEVEL", "info"),
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid CYCLECOACH_PORT: %d", cfg.Server.Port)
	}
	if cfg.Webhook.RateLimitPerDay <= 0 {
		return nil, fmt.Errorf("invalid CYCLECOACH_RATE_LIMIT_PER_DAY: %d", cfg.Webhook.RateLimitPerDay)
	}
	if cfg.Webhook.DispatchConcurrency <= 0 {
		cfg.Webhook.DispatchConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
