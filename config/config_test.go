package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "LOG_LEVEL", "API_BASE_URL", "REMOVE_BG_API_KEY", "ORDER_API_TIMEOUT", "REMOVE_BG_TIMEOUT", "COOKIE_SECURE", "CUSTOMIZER_IDLE_TIMEOUT", "SESSION_TTL", "EVICTION_INTERVAL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.OrderAPITimeout)
	assert.Equal(t, 30*time.Second, cfg.RemoveBgTimeout)
	assert.Empty(t, cfg.RemoveBgAPIKey)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 30*time.Minute, cfg.CustomizerIdleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.EvictionInterval)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("API_BASE_URL", "https://api.aynext.fr/api")
	t.Setenv("REMOVE_BG_API_KEY", "  key-123  ")
	t.Setenv("REMOVE_BG_TIMEOUT", "5s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("MOCKUP_DRIVE_FOLDER_ID", "folder-1")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://api.aynext.fr/api", cfg.APIBaseURL)
	assert.Equal(t, "key-123", cfg.RemoveBgAPIKey)
	assert.Equal(t, 5*time.Second, cfg.RemoveBgTimeout)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "folder-1", cfg.MockupDriveFolderID)
}

func TestLoadEnvFile_OverridesEnvironment(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("API_BASE_URL", "http://from-system")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://from-dotenv\n"), 0o600))

	LoadEnvFile(path)
	assert.Equal(t, "http://from-dotenv", os.Getenv("API_BASE_URL"))
}

func TestLoadEnvFile_SkippedInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "http://from-system")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://from-dotenv\n"), 0o600))

	LoadEnvFile(path)
	assert.Equal(t, "http://from-system", os.Getenv("API_BASE_URL"))
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	(&Config{LogLevel: "debug"}).ConfigureLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	(&Config{LogLevel: "loud"}).ConfigureLogging()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
