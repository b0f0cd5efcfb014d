// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the complete process configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Rules     RulesConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	// ReconcileInterval enables a background expiry pass; zero disables it
	ReconcileInterval time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the room and booking store
type StorageConfig struct {
	Backend string
	Redis   RedisConfig
	SQLite  SQLiteConfig
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// SQLiteConfig holds the SQLite database location
type SQLiteConfig struct {
	Path string
}

// RulesConfig points at the booking rules file
type RulesConfig struct {
	Path           string
	ReloadInterval time.Duration
}

// LogConfig controls the root logger
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig controls the per-client token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads the full configuration from environment variables
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // Disable write timeout for SSE connections
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: GetStorageConfig(),
		Rules: RulesConfig{
			Path:           getEnv("RULES_PATH", "configs/rules.yaml"),
			ReloadInterval: time.Duration(getEnvInt("RULES_RELOAD_SECONDS", 30)) * time.Second,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
		},
		ReconcileInterval: time.Duration(getEnvInt("RECONCILE_INTERVAL_SECONDS", 0)) * time.Second,
	}
}

// GetStorageConfig loads storage configuration from environment variables
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Backend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		Redis:   GetRedisConfig(),
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/roombooking.db"),
		},
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	return RedisConfig{
		URI:       getEnv("REDIS_URI_ROOMBOOKING", ""),
		Host:      getEnv("REDIS_HOST_ROOMBOOKING", getEnv("REDIS_ADDRESS", "localhost")),
		Port:      getEnv("REDIS_PORT_ROOMBOOKING", "6379"),
		Username:  getEnv("REDIS_USERNAME_ROOMBOOKING", ""),
		Password:  getEnv("REDIS_PASSWORD_ROOMBOOKING", getEnv("REDIS_PASSWORD", "")),
		DB:        getEnvInt("REDIS_DB", 0),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "roombooking:"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
