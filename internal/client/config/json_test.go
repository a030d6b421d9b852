package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_base_url":   "http://www.example:9000",
		"database_path":     "/tmp/other.db",
		"sync_min_interval": "10s",
		"cache_ttl":         "30m",
		"s3_bucket":         "other-bucket",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.ServerBaseURL)
		assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
		assert.Equal(t, 10*time.Second, cfg.SyncMinInterval)
		assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
		assert.Equal(t, "other-bucket", cfg.S3Bucket)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
		assert.Equal(t, 300*time.Second, cfg.SyncMinInterval)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"server_base_url": "http://partial:1234",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://partial:1234", cfg.ServerBaseURL)
		assert.Equal(t, "scenic.db", cfg.DatabasePath)
		assert.Equal(t, time.Hour, cfg.CacheTTL)
	})
}
