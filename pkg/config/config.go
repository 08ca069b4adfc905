package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds server configuration.
type Config struct {
	Port     string
	LogLevel string

	// Project persistence. With no DATABASE_URL and no PROJECT_STORE the
	// server runs in lite mode on a local SQLite file.
	ProjectStore  string
	DatabaseURL   string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string

	CatalogSource     string
	CatalogPath       string
	WatchCatalog      bool
	EvaluationProfile string

	LLMServiceURL string
	LLMAPIKey     string
	LLMModel      string

	OTELEnabled  bool
	OTELEndpoint string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:              getenv("PORT", "8080"),
		LogLevel:          getenv("LOG_LEVEL", "INFO"),
		ProjectStore:      os.Getenv("PROJECT_STORE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getenv("SQLITE_PATH", "avdesign.db"),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CatalogSource:     getenv("CATALOG_SOURCE", "file"),
		CatalogPath:       getenv("CATALOG_PATH", "catalog.json"),
		WatchCatalog:      os.Getenv("CATALOG_WATCH") == "true",
		EvaluationProfile: os.Getenv("EVALUATION_PROFILE"),
		// Default to a local OpenAI-compatible server (LM Studio)
		LLMServiceURL:  getenv("LLM_SERVICE_URL", "http://localhost:1234/v1"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		LLMModel:       getenv("LLM_MODEL", "gpt-4o-mini"),
		OTELEnabled:    os.Getenv("OTEL_ENABLED") == "true",
		OTELEndpoint:   getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 40),
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getfloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
