package config

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

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a full config file
		path := writeConfig(t, `
log-level: debug
http-port: "8081"
sqlite-storage-path: /tmp/matches.db
redis:
  host: cache
  port: "6380"
giphy:
  api-key: secret
  timeout: 2s
`)

		// When: loading it
		conf, err := Load(path)

		// Then: every value is applied
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, "/tmp/matches.db", conf.SQLiteStoragePath)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "secret", conf.Giphy.APIKey)
		assert.Equal(t, 2*time.Second, conf.Giphy.Timeout)
	})

	t.Run("Applies defaults", func(t *testing.T) {
		conf, err := Load(writeConfig(t, "log-level: info\n"))

		require.NoError(t, err)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "https://api.giphy.com/v1/gifs/search", conf.Giphy.BaseURL)
		assert.Equal(t, 5*time.Second, conf.Giphy.Timeout)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7000")

		conf, err := Load(writeConfig(t, "http-port: \"8081\"\n"))

		require.NoError(t, err)
		assert.Equal(t, "7000", conf.HTTPPort)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}
