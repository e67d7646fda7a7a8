package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
	require.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	require.Equal(t, 100, cfg.MaxPageSize)
	require.Equal(t, 8, cfg.BatchLimit)
	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "15m")
	t.Setenv("BATCH_LIMIT", "32")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.Equal(t, 15*time.Minute, cfg.JWTExpiry)
	require.Equal(t, 32, cfg.BatchLimit)
}

func TestLoad_SecretRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "too-short")
	_, err = Load()
	require.Error(t, err)
}
