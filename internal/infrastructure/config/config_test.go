package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"MOONSTAR_APP_NAME":          os.Getenv("MOONSTAR_APP_NAME"),
		"MOONSTAR_APP_ENV":           os.Getenv("MOONSTAR_APP_ENV"),
		"MOONSTAR_APP_PORT":          os.Getenv("MOONSTAR_APP_PORT"),
		"MOONSTAR_DATABASE_HOST":     os.Getenv("MOONSTAR_DATABASE_HOST"),
		"MOONSTAR_DATABASE_PORT":     os.Getenv("MOONSTAR_DATABASE_PORT"),
		"MOONSTAR_DATABASE_USER":     os.Getenv("MOONSTAR_DATABASE_USER"),
		"MOONSTAR_DATABASE_PASSWORD": os.Getenv("MOONSTAR_DATABASE_PASSWORD"),
		"MOONSTAR_DATABASE_DBNAME":   os.Getenv("MOONSTAR_DATABASE_DBNAME"),
		"MOONSTAR_DATABASE_SSLMODE":  os.Getenv("MOONSTAR_DATABASE_SSLMODE"),
		"MOONSTAR_JWT_SECRET":        os.Getenv("MOONSTAR_JWT_SECRET"),
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

		assert.Equal(t, "moonstar", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "moonstar", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, []string{"yousef", "hany"}, cfg.Billing.InvoiceCreators)
	})

	t.Run("loads values from environment variables with MOONSTAR prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("MOONSTAR_APP_NAME", "test-app")
		os.Setenv("MOONSTAR_APP_PORT", "9000")
		os.Setenv("MOONSTAR_DATABASE_HOST", "testdb.local")
		os.Setenv("MOONSTAR_DATABASE_PORT", "5433")
		os.Setenv("MOONSTAR_DATABASE_PASSWORD", "testpass")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("MOONSTAR_APP_ENV", "production")
		os.Setenv("MOONSTAR_DATABASE_PASSWORD", "testpass")
		os.Setenv("MOONSTAR_DATABASE_SSLMODE", "require")
		os.Setenv("MOONSTAR_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "moonstar",
		Password: "p@ss/word",
		DBName:   "moonstar",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.local:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", r.Addr())
}
