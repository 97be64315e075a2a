package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"BILLFOLD_APP_NAME":          os.Getenv("BILLFOLD_APP_NAME"),
		"BILLFOLD_APP_ENV":           os.Getenv("BILLFOLD_APP_ENV"),
		"BILLFOLD_APP_PORT":          os.Getenv("BILLFOLD_APP_PORT"),
		"BILLFOLD_DATABASE_HOST":     os.Getenv("BILLFOLD_DATABASE_HOST"),
		"BILLFOLD_DATABASE_PORT":     os.Getenv("BILLFOLD_DATABASE_PORT"),
		"BILLFOLD_DATABASE_USER":     os.Getenv("BILLFOLD_DATABASE_USER"),
		"BILLFOLD_DATABASE_PASSWORD": os.Getenv("BILLFOLD_DATABASE_PASSWORD"),
		"BILLFOLD_DATABASE_DBNAME":   os.Getenv("BILLFOLD_DATABASE_DBNAME"),
		"BILLFOLD_DATABASE_SSLMODE":  os.Getenv("BILLFOLD_DATABASE_SSLMODE"),
		"BILLFOLD_LOG_LEVEL":         os.Getenv("BILLFOLD_LOG_LEVEL"),
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

		assert.Equal(t, "billfold-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "billfold", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 3, cfg.Settlement.MaxConflictRetries)
		assert.Equal(t, 20, cfg.Settlement.RecentActivityLimit)
	})

	t.Run("loads values from environment variables with BILLFOLD prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLFOLD_APP_NAME", "test-app")
		os.Setenv("BILLFOLD_APP_PORT", "9000")
		os.Setenv("BILLFOLD_DATABASE_HOST", "testdb.local")
		os.Setenv("BILLFOLD_DATABASE_PORT", "5433")
		os.Setenv("BILLFOLD_DATABASE_USER", "testuser")
		os.Setenv("BILLFOLD_DATABASE_DBNAME", "testdb")
		os.Setenv("BILLFOLD_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLFOLD_APP_ENV", "production")
		os.Setenv("BILLFOLD_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLFOLD_APP_ENV", "production")
		os.Setenv("BILLFOLD_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "billfold",
		Password: "p@ss/word",
		DBName:   "ledger",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/ledger")
	assert.Contains(t, dsn, "sslmode=disable")
	// password must be escaped, not embedded raw
	assert.NotContains(t, dsn, "p@ss/word")
}
