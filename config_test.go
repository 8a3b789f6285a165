package satchel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satchel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
backend: redis
ttl: 45m
operation_timeout: 2s
redis:
  address: cache.internal:6379
  key_prefix: "myapp:sess:"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 45*time.Minute, cfg.TTL.Std())
	assert.Equal(t, 2*time.Second, cfg.OperationTimeout.Std())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Address)
	assert.Equal(t, "myapp:sess:", cfg.Redis.KeyPrefix)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, 30*time.Minute, cfg.TTL.Std())
	assert.Equal(t, "sessions", cfg.File.Directory)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "backend: file\n")

	t.Setenv("SATCHEL_BACKEND", "memory")
	t.Setenv("SATCHEL_TTL", "10m")
	t.Setenv("SATCHEL_LISTEN", ":9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 10*time.Minute, cfg.TTL.Std())
	assert.Equal(t, ":9090", cfg.Listen)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := writeConfig(t, "ttl: soon\n")

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("unknown_backend", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend = "carrier-pigeon"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("missing_redis_address", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend = BackendRedis
		cfg.Redis.Address = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("missing_file_directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.File.Directory = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("zero_ttl", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TTL = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})
}
