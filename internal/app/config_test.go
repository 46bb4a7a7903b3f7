package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	require.Equal(t, 720*time.Hour, cfg.TokenTTL)
	require.NotEmpty(t, cfg.WarmupCron)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_ADDR", ":9999")
	t.Setenv("REPORT_CACHE_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.AppAddr)
	require.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	require.True(t, cfg.IsProduction())
}

func TestStaticTokens(t *testing.T) {
	cfg := &Config{APITokens: " one , two,,three "}
	require.Equal(t, []string{"one", "two", "three"}, cfg.StaticTokens())

	cfg = &Config{}
	require.Nil(t, cfg.StaticTokens())
}
