package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SIGNING_ALLOW_RESIGN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 72, cfg.JWT.SigningLinkHours)
	assert.Equal(t, "Asia/Muscat", cfg.Business.Timezone)
	assert.True(t, cfg.Signing.AllowResign)
	assert.True(t, cfg.Signing.AllowTerminal)
	assert.Equal(t, "postgres://postgres:@db.internal:6543/scaffold_db?sslmode=disable", cfg.DSN())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}
