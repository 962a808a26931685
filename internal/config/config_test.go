package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randkey/randkey/pkg/keyspace"
)

// setEnv sets an environment variable for the duration of a test.
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

// clearEnv clears an environment variable for the duration of a test.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL",
		"KEY_STORAGE_CLASS", "KEY_DIGITS", "KEY_MAX_ATTEMPTS",
		"KEY_INSERT_RETRIES", "KEY_TABLE", "KEY_CACHE_PREFIX",
	}
	for _, v := range envVars {
		clearEnv(t, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, keyspace.Int, cfg.Key.Class)
	assert.Equal(t, 10, cfg.Key.Digits)
	assert.Equal(t, 16, cfg.Key.MaxAttempts)
	assert.Equal(t, 3, cfg.Key.InsertRetries)
	assert.Equal(t, "keys", cfg.Key.Table)
}

func TestLoad_KeyConfig(t *testing.T) {
	setEnv(t, "KEY_STORAGE_CLASS", "mediumint")
	setEnv(t, "KEY_DIGITS", "8")
	setEnv(t, "KEY_MAX_ATTEMPTS", "50")
	setEnv(t, "KEY_TABLE", "allocated_keys")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, keyspace.MediumInt, cfg.Key.Class)
	assert.Equal(t, 8, cfg.Key.Digits)
	assert.Equal(t, 50, cfg.Key.MaxAttempts)
	assert.Equal(t, "allocated_keys", cfg.Key.Table)
}

func TestLoad_RejectsInvalidCombinationAtLoadTime(t *testing.T) {
	setEnv(t, "KEY_STORAGE_CLASS", "tinyint")
	setEnv(t, "KEY_DIGITS", "5")

	_, err := Load()
	assert.ErrorIs(t, err, keyspace.ErrDigitsOutOfRange)
}

func TestLoad_RejectsUnknownStorageClass(t *testing.T) {
	setEnv(t, "KEY_STORAGE_CLASS", "varchar")

	_, err := Load()
	assert.ErrorIs(t, err, keyspace.ErrUnknownClass)
}

func TestLoad_RejectsMalformedDigits(t *testing.T) {
	clearEnv(t, "KEY_STORAGE_CLASS")
	setEnv(t, "KEY_DIGITS", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DatabaseConfig(t *testing.T) {
	setEnv(t, "DB_HOST", "db.internal")
	setEnv(t, "DB_PORT", "5433")
	setEnv(t, "DB_USER", "svc")
	setEnv(t, "DB_NAME", "ids")
	setEnv(t, "DB_CONN_MAX_LIFETIME", "10m")
	clearEnv(t, "KEY_STORAGE_CLASS")
	clearEnv(t, "KEY_DIGITS")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "svc", cfg.Database.User)
	assert.Equal(t, "ids", cfg.Database.DBName)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestRedisEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.RedisEnabled())

	cfg.Redis.Host = "localhost"
	assert.True(t, cfg.RedisEnabled())
}

func TestKeyConfig_GeneratorConfig(t *testing.T) {
	kc := KeyConfig{Class: keyspace.SmallInt, Digits: 4}
	gc := kc.GeneratorConfig()

	assert.Equal(t, keyspace.SmallInt, gc.Class)
	assert.Equal(t, 4, gc.Digits)
	assert.Equal(t, keyspace.HostWordSize(), gc.Word)
}

func TestAppConfig_EnvHelpers(t *testing.T) {
	assert.True(t, AppConfig{Env: "dev"}.IsDevelopment())
	assert.True(t, AppConfig{Env: "development"}.IsDevelopment())
	assert.True(t, AppConfig{Env: "prod"}.IsProduction())
	assert.False(t, AppConfig{Env: "dev"}.IsProduction())
}
