package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfigDefaults(t *testing.T) {
	t.Setenv("SOULFORGE_AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadAPIConfig("", t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "PLATFORM_EVENTS", cfg.NATS.StreamName)
	assert.Equal(t, 10, cfg.NATS.MaxReconnects)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 20, cfg.Trust.LevelStep)
	assert.Equal(t, 10, cfg.Worker.WorkerPoolSize)
}

func TestLoadAPIConfigFromEnv(t *testing.T) {
	t.Setenv("SOULFORGE_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("SOULFORGE_DATABASE_HOST", "db.internal")
	t.Setenv("SOULFORGE_DATABASE_PORT", "5433")
	t.Setenv("SOULFORGE_DATABASE_USER", "soulforge")
	t.Setenv("SOULFORGE_DATABASE_PASSWORD", "secret")
	t.Setenv("SOULFORGE_DATABASE_DBNAME", "soulforge")
	t.Setenv("SOULFORGE_SERVER_PORT", "9090")
	t.Setenv("SOULFORGE_AUTH_TOKEN_TTL", "2h")
	t.Setenv("SOULFORGE_TRUST_LEVEL_STEP", "25")

	cfg, err := LoadAPIConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 25, cfg.Trust.LevelStep)

	assert.Equal(t,
		"host=db.internal port=5433 user=soulforge password=secret dbname=soulforge sslmode=disable",
		cfg.Database.DSN())
}

func TestLoadAPIConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("SOULFORGE_AUTH_JWT_SECRET", "")

	_, err := LoadAPIConfig("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}
