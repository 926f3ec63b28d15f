package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("APP_URL", "http://example.test/")

	cf, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cf.AppPort)
	require.Equal(t, "http://example.test", cf.AppURL)
	require.Equal(t, "storage/app/public", cf.StorageRoot)
	require.Equal(t, 720*time.Hour, cf.TokenTTL)
	require.ErrorIs(t, cf.RequireDSN(), ErrNoDSN)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost user=app dbname=catalog")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("APP_ENV", "Production")

	cf, err := Load()
	require.NoError(t, err)
	require.NoError(t, cf.RequireDSN())
	require.Equal(t, "9090", cf.AppPort)
	require.Equal(t, 3, cf.RedisDB)
	require.Equal(t, time.Hour, cf.TokenTTL)
	require.True(t, cf.IsProduction())
}
