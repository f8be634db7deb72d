package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("FLEET_ENV", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.LogRequests)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
}

func TestLoadProductionProfile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLEET_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.LogRequests)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLEET_ENV", "development")
	t.Setenv("FLEET_API_BASE_URL", "http://backend.internal:9000")
	t.Setenv("FLEET_API_TIMEOUT", "3s")
	t.Setenv("FLEET_CACHE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("unknown env", func(t *testing.T) {
		t.Setenv("FLEET_ENV", "staging")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("redis without url", func(t *testing.T) {
		t.Setenv("FLEET_ENV", "development")
		t.Setenv("FLEET_CACHE_DRIVER", "redis")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestGet(t *testing.T) {
	t.Setenv("FLEET_TEST_KEY", "value")
	assert.Equal(t, "value", Get("FLEET_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("FLEET_TEST_MISSING", "fallback"))
}
