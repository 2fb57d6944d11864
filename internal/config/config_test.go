package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_MODE", "API_BASE_URL", "HTTP_TIMEOUT", "MAX_RETRIES", "STORAGE_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	assert.Equal(t, "embedded-store", cfg.Backend.Mode)
	assert.Equal(t, config.DefaultBaseURL, cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.HTTPTimeout)
	assert.Equal(t, 3, cfg.Backend.Resilience.MaxRetries)
	assert.False(t, cfg.Backend.Storage.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_MODE", "dotnet")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_USE_SSL", "false")

	cfg := config.Load()
	assert.Equal(t, "dotnet", cfg.Backend.Mode)
	assert.Equal(t, 5*time.Second, cfg.Backend.HTTPTimeout)
	assert.Equal(t, 3, cfg.Backend.Resilience.MaxRetries)
	assert.True(t, cfg.Backend.Storage.Enabled())
	assert.False(t, cfg.Backend.Storage.UseSSL)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("COLLECTIONS_TEST_A=from-file\nCOLLECTIONS_TEST_B=from-file\n"), 0o600))

	t.Setenv("COLLECTIONS_TEST_A", "from-env")
	os.Unsetenv("COLLECTIONS_TEST_B")
	t.Cleanup(func() { os.Unsetenv("COLLECTIONS_TEST_B") })

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("COLLECTIONS_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("COLLECTIONS_TEST_B"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
