package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/models"
)

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, fakeTokens{})
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &models.CreateUserRequest{
		Name: "Fatma", Email: "Fatma@Example.com", Password: "s3cret-pass", Role: models.RoleAccountant,
	})
	require.NoError(t, err)
	assert.Equal(t, "fatma@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "FATMA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "session-1", resp.Token)
	assert.Equal(t, u.ID, resp.User.ID)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "fatma@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.SetActive(ctx, u.ID, false))
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "fatma@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrUserSuspended)
}

func TestEnsureAdmin(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, fakeTokens{})
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@example.com", "first-password")
	require.NoError(t, err)
	again, err := svc.EnsureAdmin(ctx, "admin@example.com", "second-password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "second-password"})
	assert.NoError(t, err)

	_, err = svc.EnsureAdmin(ctx, "admin@example.com", "short")
	assert.Error(t, err)
}
