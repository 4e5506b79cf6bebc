package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL    string
	RedisURL       string
	Env            string
	Port           string
	LogLevel       string
	LogFormat      string
	AppURL         string
	DigestSchedule string // cron spec for the periodic schedule pass
	CronSecret     string // bearer secret for the on-demand worker trigger
	EmailFrom      string
	ResendAPIKey   string // empty selects the dev-log mail transport
	SeedDev        bool
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		Env:            getEnvWithDefault("ENV", "development"),
		Port:           getEnvWithDefault("PORT", "8080"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvWithDefault("LOG_FORMAT", "text"),
		AppURL:         getEnvWithDefault("APP_URL", "http://localhost:8080"),
		DigestSchedule: getEnvWithDefault("DIGEST_SCHEDULE", "*/5 * * * *"),
		CronSecret:     os.Getenv("CRON_SECRET"),
		EmailFrom:      getEnvWithDefault("EMAIL_FROM", "TaskFlow <noreply@taskflow.app>"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		SeedDev:        os.Getenv("SEED_DEV") == "true",
	}

	if cfg.CronSecret == "" {
		log.Println("WARNING: CRON_SECRET not set; the worker trigger endpoint is unprotected")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
