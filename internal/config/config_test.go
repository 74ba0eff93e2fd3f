package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEMWEB_BASE_URL", "")
	t.Setenv("API_PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://nemweb.com.au", cfg.Archive.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Archive.Timeout())
	assert.Equal(t, "8080", cfg.API.Port)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("NEMWEB_BASE_URL", "")
	t.Setenv("API_PORT", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `archive:
  base_url: http://localhost:9999
  timeout_seconds: 5
api:
  port: "9090"
  env: production
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.Archive.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Archive.Timeout())
	assert.Equal(t, "9090", cfg.API.Port)
	assert.Equal(t, "production", cfg.API.Env)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("NEMWEB_BASE_URL", "")
	t.Setenv("API_PORT", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  port: \"9191\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://nemweb.com.au", cfg.Archive.BaseURL)
	assert.Equal(t, "9191", cfg.API.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEMWEB_BASE_URL", "http://archive.test")
	t.Setenv("NEMWEB_TIMEOUT_SECONDS", "7")
	t.Setenv("API_PORT", "7070")
	t.Setenv("API_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://archive.test", cfg.Archive.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Archive.Timeout())
	assert.Equal(t, "7070", cfg.API.Port)
	assert.Equal(t, "production", cfg.API.Env)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.API.Port = "not-a-port"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Archive.TimeoutSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Archive.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
