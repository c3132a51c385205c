package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_AccessRoundTrip(t *testing.T) {
	tk := NewTokens("test-secret", time.Minute, time.Hour)

	s, expiresAt, err := tk.IssueAccess("u1", "admin@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, s)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := tk.ValidateAccess(s)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokens_Expired(t *testing.T) {
	tk := NewTokens("test-secret", -time.Minute, time.Hour)
	s, _, err := tk.IssueAccess("u1", "a@b.c", "customer")
	require.NoError(t, err)

	_, err = tk.ValidateAccess(s)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	tk := NewTokens("secret-a", time.Minute, time.Hour)
	other := NewTokens("secret-b", time.Minute, time.Hour)

	s, _, err := tk.IssueAccess("u1", "a@b.c", "customer")
	require.NoError(t, err)

	_, err = other.ValidateAccess(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Garbage(t *testing.T) {
	tk := NewTokens("test-secret", time.Minute, time.Hour)
	_, err := tk.ValidateAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RefreshRoundTrip(t *testing.T) {
	tk := NewTokens("test-secret", time.Minute, time.Hour)
	s, _, err := tk.IssueRefresh("u42")
	require.NoError(t, err)

	userID, err := tk.ValidateRefresh(s)
	require.NoError(t, err)
	assert.Equal(t, "u42", userID)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, CheckPassword("correct-horse", hash))
	assert.False(t, CheckPassword("wrong", hash))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
