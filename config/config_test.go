package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "scorepad.db", cfg.Storage.Path)
	assert.Equal(t, 10*time.Hour, cfg.Session.TTL)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "http:\n  addr: \":9090\"\nstorage:\n  path: /tmp/pad.db\nsession:\n  ttl: 2h\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/pad.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SCOREPAD_HTTP_ADDR", ":7000")
	t.Setenv("SCOREPAD_SESSION_TTL", "30m")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadConfigRejectsBadTTL(t *testing.T) {
	t.Setenv("SCOREPAD_SESSION_TTL", "soon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
