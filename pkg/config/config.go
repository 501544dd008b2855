package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultUserID is the user the CLI acts as when HABITTRACKER_USER_ID is unset.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. An empty URL or a sqlite:// URL selects the embedded store.
	DatabaseURL string
	SQLitePath  string
	DBMaxConns  int

	// Redis. Empty means the in-process cache.
	RedisURL string

	// Cache
	CacheUserTTL          time.Duration
	CacheHabitTTL         time.Duration
	CacheChartTTL         time.Duration
	CacheBreakerThreshold int
	CacheBreakerTimeout   time.Duration

	// RabbitMQ. Empty URL means events are dropped by the noop publisher.
	RabbitMQURL      string
	RabbitMQExchange string

	// Outbox
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxRetries      int
	OutboxRetention       time.Duration
	OutboxCleanupSchedule string

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr        string
	MCPAuthToken   string
	MCPMetricsAddr string

	// Analytics
	UserID            string
	DefaultWindowDays int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("HABITTRACKER_ENV", "development"),
		LogLevel: getEnv("HABITTRACKER_LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),
		DBMaxConns:  getIntEnv("DB_MAX_CONNS", 10),

		RedisURL: getEnv("REDIS_URL", ""),

		CacheUserTTL:          getDurationEnv("CACHE_USER_TTL", time.Hour),
		CacheHabitTTL:         getDurationEnv("CACHE_HABIT_TTL", 30*time.Minute),
		CacheChartTTL:         getDurationEnv("CACHE_CHART_TTL", 15*time.Minute),
		CacheBreakerThreshold: getIntEnv("CACHE_BREAKER_THRESHOLD", 5),
		CacheBreakerTimeout:   getDurationEnv("CACHE_BREAKER_TIMEOUT", 30*time.Second),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "habittracker.events"),

		OutboxPollInterval:    getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:       getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:      getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetention:       getDurationEnv("OUTBOX_RETENTION", 14*24*time.Hour),
		OutboxCleanupSchedule: getEnv("OUTBOX_CLEANUP_SCHEDULE", "0 3 * * *"),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:        getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken:   getEnv("MCP_AUTH_TOKEN", ""),
		MCPMetricsAddr: getEnv("MCP_METRICS_ADDR", "0.0.0.0:8083"),

		UserID:            getEnv("HABITTRACKER_USER_ID", DefaultUserID),
		DefaultWindowDays: getIntEnv("DEFAULT_WINDOW_DAYS", 30),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesSQLite reports whether the embedded store is selected.
func (c *Config) UsesSQLite() bool {
	return c.DatabaseURL == "" || strings.HasPrefix(c.DatabaseURL, "sqlite://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
