package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-not-for-production"

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthService(users, testJWTSecret, time.Hour)

	user, err := auth.Register(context.Background(), "new@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Empty(t, user.PasswordHash, "hash must not leak out of the service")

	// The stored hash is bcrypt, not the plaintext.
	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)

	token, loggedIn, err := auth.Login(context.Background(), "new@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthService(users, testJWTSecret, time.Hour)

	_, err := auth.Register(context.Background(), "dup@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), "dup@example.com", "different-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_WrongCredentials(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthService(users, testJWTSecret, time.Hour)

	_, err := auth.Register(context.Background(), "user@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = auth.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
