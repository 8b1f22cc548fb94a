package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/config"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/timeutil"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "scaffold-backend"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.SigningLinkHours = 2
	return NewJWTManager(cfg)
}

func TestSessionToken(t *testing.T) {
	m := testManager()
	user := &models.User{ID: 4, Email: "ops@example.com", Role: models.RoleAccountant}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 4, claims.UserID)
	assert.Equal(t, models.RoleAccountant, claims.Role)

	_, err = m.ValidateSigningToken(token)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestSigningToken(t *testing.T) {
	m := testManager()

	token, expires, err := m.GenerateSigningToken(9, "CNT-000009")
	require.NoError(t, err)
	assert.WithinDuration(t, timeutil.Now().Add(2*time.Hour), expires, time.Minute)

	claims, err := m.ValidateSigningToken(token)
	require.NoError(t, err)
	assert.Equal(t, 9, claims.ContractID)
	assert.Equal(t, "CNT-000009", claims.ContractNumber)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestExpiredSigningToken(t *testing.T) {
	m := testManager()
	restore := timeutil.SetClock(func() time.Time { return time.Now().Add(-3 * time.Hour) })
	token, _, err := m.GenerateSigningToken(9, "CNT-000009")
	restore()
	require.NoError(t, err)

	_, err = m.ValidateSigningToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromOtherSecret(t *testing.T) {
	m := testManager()
	token, err := m.GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	other := testManager()
	other.cfg.JWT.Secret = "different"
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
