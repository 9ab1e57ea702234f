package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Ledger   LedgerConfig
	Codes    CodeConfig
}

// ServerConfig holds process-level configuration
type ServerConfig struct {
	Env string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	LockTimeout  time.Duration
	MaxOpenConns int
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables the cache.
type RedisConfig struct {
	URL         string
	PASSWORD    string
	StatsTTL    time.Duration
	FallbackTTL time.Duration
}

// Enabled reports whether a Redis URL was configured
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// NATSConfig holds ledger event bus configuration. An empty URL disables publishing.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// LedgerConfig holds batch/reconciliation settings
type LedgerConfig struct {
	BatchSize         int
	ReconcileInterval time.Duration
	MetricsAddr       string
}

// CodeConfig holds package code generation settings
type CodeConfig struct {
	FallbackAttempts int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env: getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "parcel_ledger"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			LockTimeout:  getEnvAsDuration("DB_LOCK_TIMEOUT", 5*time.Second),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			PASSWORD:    getEnv("REDIS_PASSWORD", ""),
			StatsTTL:    getEnvAsDuration("REDIS_STATS_TTL", 5*time.Minute),
			FallbackTTL: getEnvAsDuration("REDIS_FALLBACK_TTL", 0),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "ledger.wallet"),
		},
		Ledger: LedgerConfig{
			BatchSize:         getEnvAsInt("LEDGER_BATCH_SIZE", 500),
			ReconcileInterval: getEnvAsDuration("LEDGER_RECONCILE_INTERVAL", 15*time.Minute),
			MetricsAddr:       getEnv("LEDGER_METRICS_ADDR", ""),
		},
		Codes: CodeConfig{
			FallbackAttempts: getEnvAsInt("CODE_FALLBACK_ATTEMPTS", 5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
