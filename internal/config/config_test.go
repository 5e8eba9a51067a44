package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://localhost/staticshop?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IDENTITY_API_URL", "https://identity.example.com")
	t.Setenv("IDENTITY_API_TOKEN", "token")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "identity.created", cfg.Nats.CreatedSubject)
	assert.Equal(t, 1000, cfg.Identity.PageSize)
	assert.False(t, cfg.Admin.ProtectSelfDemotion)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PROTECT_SELF_DEMOTION", "true")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Admin.ProtectSelfDemotion)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IDENTITY_API_URL", "https://identity.example.com")
	t.Setenv("IDENTITY_API_TOKEN", "token")
	// t.Setenv registers the restore; the variable must truly be absent
	// because env treats an empty value as set.
	t.Setenv("DATABASE_DSN", "")
	os.Unsetenv("DATABASE_DSN")

	_, err := Load()
	assert.Error(t, err)
}
