package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())

	cfg, err := Load("checkout", WithDefaults(map[string]interface{}{
		"server.http.port": 3001,
		"stripe.timeout":   "30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.GetInt("server.http.port"))
	assert.Equal(t, 30*time.Second, cfg.GetDuration("stripe.timeout"))
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  http:\n    port: 4000\nservice:\n  client_url: https://file.example\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkout.yaml"), []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("PORT", "5000")

	cfg, err := Load("checkout",
		WithDefaults(map[string]interface{}{"server.http.port": 3001}),
		WithEnvBindings(map[string][]string{"server.http.port": {"PORT"}}),
	)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.GetInt("server.http.port"))
	assert.Equal(t, "https://file.example", cfg.GetString("service.client_url"))
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("CHECKOUT_LOG_LEVEL", "debug")

	cfg, err := Load("checkout", WithDefaults(map[string]interface{}{"log.level": "info"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.GetString("log.level"))
}

func TestLoad_FirstBoundEnvWins(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("VITE_APP_URL", "https://vite.example")
	t.Setenv("CLIENT_URL", "https://client.example")

	cfg, err := Load("checkout", WithEnvBindings(map[string][]string{
		"service.client_url": {"VITE_APP_URL", "CLIENT_URL"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://vite.example", cfg.GetString("service.client_url"))
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkout.yaml"), []byte("server: [unclosed"), 0o600))
	t.Setenv("CONFIG_PATH", dir)

	_, err := Load("checkout")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("DOTENV_ONLY=from-file\nDOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("DOTENV_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("DOTENV_ONLY") })

	loaded, err := LoadDotEnv(filepath.Join(dir, "missing.env"), file)
	require.NoError(t, err)

	assert.Equal(t, []string{file}, loaded)
	assert.Equal(t, "from-file", os.Getenv("DOTENV_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_KEEP"))
}
