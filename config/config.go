package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradejournal/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// HTTP server
	ServerAddr string

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // "std" or "zap"

	// Statistics
	StatsCacheTTL    time.Duration
	StockRollupLimit int
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// HTTP server
	cfg.ServerAddr = getEnv("SERVER_ADDR", ":8080")
	if cfg.ServerAddr == "" {
		errs = append(errs, "SERVER_ADDR must be set")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "std"))
	if cfg.LogFormat != "std" && cfg.LogFormat != "zap" {
		errs = append(errs, "LOG_FORMAT must be 'std' or 'zap'")
	}

	// Statistics
	cacheTTLSeconds := getEnvAsInt("STATS_CACHE_TTL_SECONDS", 300)
	if cacheTTLSeconds <= 0 {
		errs = append(errs, "STATS_CACHE_TTL_SECONDS must be positive")
	}
	cfg.StatsCacheTTL = time.Duration(cacheTTLSeconds) * time.Second

	cfg.StockRollupLimit = getEnvAsInt("STOCK_ROLLUP_LIMIT", 20)
	if cfg.StockRollupLimit <= 0 {
		errs = append(errs, "STOCK_ROLLUP_LIMIT must be positive")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
