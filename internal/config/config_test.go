package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moodscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "emotions_log.json", cfg.Store.Path)
	assert.False(t, cfg.Store.StrictLoad)
	assert.False(t, cfg.Auth.Enabled)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:5173")
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: "9000"
log:
  level: debug
store:
  backend: redis
redis:
  addr: cache:6379
cors:
  allowed_origins: ["https://example.org"]
`)
	t.Setenv("REDIS_URI", "redis://override:6380")
	t.Setenv("STRICT_LOAD", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "override:6380", cfg.Redis.Addr)
	assert.Equal(t, "moodscale:entries", cfg.Redis.Key)
	assert.True(t, cfg.Store.StrictLoad)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoadCORSFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "port: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown store backend")
	})

	t.Run("auth without secret", func(t *testing.T) {
		_, err := Load(writeConfig(t, "auth:\n  enabled: true\n  jwt_secret: \"\"\n"))
		assert.ErrorContains(t, err, "jwt_secret")
	})
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("MOODSCALE_FLAG", "not-a-bool")
	assert.True(t, getEnvBool("MOODSCALE_FLAG", true))

	t.Setenv("MOODSCALE_FLAG", "0")
	assert.False(t, getEnvBool("MOODSCALE_FLAG", true))
}
