package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/game-community/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "/login", cfg.Server.LoginPath)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.Expiry)
	assert.Equal(t, "database", cfg.Session.Store)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.NATS.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_UpstreamEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://backend.example.com/")
	t.Setenv("API_RAWG_GET_URL", "https://catalog.example.com")
	t.Setenv("API_RAWG_KEY", "secret-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// 末尾斜杠被去掉
	assert.Equal(t, "https://backend.example.com", cfg.Upstream.BackendURL)
	assert.Equal(t, "https://catalog.example.com", cfg.Upstream.CatalogURL)
	assert.Equal(t, "secret-key", cfg.Upstream.CatalogKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Upstream: UpstreamConfig{BackendURL: "http://b", CatalogURL: "http://c"},
		Session:  SessionConfig{Store: "memory"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Session.Store = "cookie"
	err := cfg.Validate()
	assert.True(t, errors.Is(err, errors.ErrConfigValidate))
	assert.Contains(t, err.Error(), "cookie")

	cfg.Session.Store = "memory"
	cfg.Upstream.BackendURL = ""
	assert.True(t, errors.Is(cfg.Validate(), errors.ErrConfigValidate))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigLoad))
}
