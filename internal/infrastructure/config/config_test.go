package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CUSTOMER_APP_NAME":                     os.Getenv("CUSTOMER_APP_NAME"),
		"CUSTOMER_APP_ENV":                      os.Getenv("CUSTOMER_APP_ENV"),
		"CUSTOMER_APP_PORT":                     os.Getenv("CUSTOMER_APP_PORT"),
		"CUSTOMER_DATABASE_HOST":                os.Getenv("CUSTOMER_DATABASE_HOST"),
		"CUSTOMER_DATABASE_PASSWORD":            os.Getenv("CUSTOMER_DATABASE_PASSWORD"),
		"CUSTOMER_DATABASE_SSLMODE":             os.Getenv("CUSTOMER_DATABASE_SSLMODE"),
		"CUSTOMER_DIRECTORY_BASE_URL":           os.Getenv("CUSTOMER_DIRECTORY_BASE_URL"),
		"CUSTOMER_DIRECTORY_CACHE_BACKEND":      os.Getenv("CUSTOMER_DIRECTORY_CACHE_BACKEND"),
		"CUSTOMER_JWT_SECRET":                   os.Getenv("CUSTOMER_JWT_SECRET"),
		"CUSTOMER_COMPAT_LEGACY_ERROR_WRAPPING": os.Getenv("CUSTOMER_COMPAT_LEGACY_ERROR_WRAPPING"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "customer-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "customers", cfg.Database.DBName)
		assert.Equal(t, "http://localhost:8081", cfg.Directory.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Directory.Timeout)
		assert.Equal(t, "none", cfg.Directory.CacheBackend)
		assert.Equal(t, []string{"admin"}, cfg.Access.PrivilegedRoles)
		assert.True(t, cfg.Compat.LegacyErrorWrapping)
	})

	t.Run("loads values from environment variables with CUSTOMER prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMER_APP_NAME", "test-app")
		os.Setenv("CUSTOMER_DATABASE_HOST", "testdb.local")
		os.Setenv("CUSTOMER_DIRECTORY_BASE_URL", "http://users.internal:9000")
		os.Setenv("CUSTOMER_COMPAT_LEGACY_ERROR_WRAPPING", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "http://users.internal:9000", cfg.Directory.BaseURL)
		assert.False(t, cfg.Compat.LegacyErrorWrapping)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMER_DIRECTORY_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory.cache_backend")
	})

	t.Run("production requires jwt secret and db credentials", func(t *testing.T) {
		clearEnv()
		os.Setenv("CUSTOMER_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("CUSTOMER_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		os.Setenv("CUSTOMER_DATABASE_PASSWORD", "secret")
		os.Setenv("CUSTOMER_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "customers",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
