package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("jwt-secret", 15)
	require.NoError(t, err)

	tok, exp, err := tm.GenerateToken("p1", "admin@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "p1", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestTokenManagerRejects(t *testing.T) {
	tm, err := NewTokenManager("jwt-secret", 15)
	require.NoError(t, err)
	tok, _, err := tm.GenerateToken("p1", "admin@example.com")
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret", 15)
	require.NoError(t, err)
	_, err = other.ParseToken(tok)
	assert.Error(t, err)

	tm.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = tm.ParseToken(tok)
	assert.Error(t, err, "expired token")

	_, err = tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", 15)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.Error(t, ComparePassword(hash, "wrong horse"))
	assert.Error(t, ComparePassword("", "anything"))

	assert.ErrorIs(t, ValidateNewPassword("short"), ErrPasswordTooShort)
	assert.NoError(t, ValidateNewPassword("long enough"))
	assert.Error(t, ValidateNewPassword(string(make([]byte, 73))))
}
