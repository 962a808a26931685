// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/randkey/randkey/pkg/keygen"
	"github.com/randkey/randkey/pkg/keyspace"
)

// Config holds all configuration for the key generator.
type Config struct {
	App      AppConfig
	Key      KeyConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Env      string
	LogLevel string
}

// IsDevelopment returns true if the app is running in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development" || a.Env == "dev"
}

// IsProduction returns true if the app is running in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

// KeyConfig holds key generation configuration.
type KeyConfig struct {
	Class          keyspace.Class
	Digits         int
	MaxAttempts    int
	InsertRetries  int
	Table          string
	CacheKeyPrefix string
}

// GeneratorConfig converts to the keygen configuration for the current host.
func (k KeyConfig) GeneratorConfig() keygen.Config {
	return keygen.Config{
		Class:  k.Class,
		Digits: k.Digits,
		Word:   keyspace.HostWordSize(),
	}
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// Load reads configuration from environment variables. An invalid storage
// class / digit combination fails here rather than at generation time.
func Load() (*Config, error) {
	cfg := &Config{}

	// App config
	cfg.App.Env = getEnvOrDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Key config
	class, err := keyspace.ParseClass(getEnvOrDefault("KEY_STORAGE_CLASS", "int"))
	if err != nil {
		return nil, fmt.Errorf("invalid KEY_STORAGE_CLASS: %w", err)
	}
	cfg.Key.Class = class

	digits, err := getEnvAsInt("KEY_DIGITS", keygen.DefaultDigits)
	if err != nil {
		return nil, fmt.Errorf("invalid KEY_DIGITS: %w", err)
	}
	cfg.Key.Digits = digits

	maxAttempts, err := getEnvAsInt("KEY_MAX_ATTEMPTS", keygen.DefaultMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("invalid KEY_MAX_ATTEMPTS: %w", err)
	}
	cfg.Key.MaxAttempts = maxAttempts

	insertRetries, err := getEnvAsInt("KEY_INSERT_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid KEY_INSERT_RETRIES: %w", err)
	}
	cfg.Key.InsertRetries = insertRetries

	cfg.Key.Table = getEnvOrDefault("KEY_TABLE", "keys")
	cfg.Key.CacheKeyPrefix = getEnvOrDefault("KEY_CACHE_PREFIX", "key")

	// The combination is rejected at load time, never deferred.
	if err := cfg.Key.GeneratorConfig().Validate(); err != nil {
		return nil, err
	}

	// Database config
	cfg.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	dbPort, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort
	cfg.Database.User = getEnvOrDefault("DB_USER", "randkey")
	cfg.Database.Password = getEnvOrDefault("DB_PASSWORD", "")
	cfg.Database.DBName = getEnvOrDefault("DB_NAME", "randkey")
	cfg.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	maxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	cfg.Database.MaxOpenConns = maxOpenConns

	maxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	cfg.Database.MaxIdleConns = maxIdleConns

	connMaxLifetime, err := getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.Database.ConnMaxLifetime = connMaxLifetime

	// Redis config
	cfg.Redis.Host = getEnvOrDefault("REDIS_HOST", "")
	redisPort, err := getEnvAsInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	cfg.Redis.Port = redisPort
	cfg.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", "")
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB
	redisPoolSize, err := getEnvAsInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}
	cfg.Redis.PoolSize = redisPoolSize

	return cfg, nil
}

// RedisEnabled returns true if Redis configuration is provided.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable as an integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// getEnvAsDuration returns the environment variable as a duration.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, err
	}
	return value, nil
}
