package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTUtil_RoundTrip(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)

	token, err := j.GenerateToken("user-1", "developer")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "developer", claims.Role)
	assert.Equal(t, "devconnect-api", claims.Issuer)
	assert.Equal(t, time.Hour, j.Expiration())
}

func TestJWTUtil_RejectsExpiredToken(t *testing.T) {
	j := NewJWTUtil("secret", -time.Minute)

	token, err := j.GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTUtil_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTUtil("other", time.Hour).GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = NewJWTUtil("secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTUtil_RejectsGarbage(t *testing.T) {
	_, err := NewJWTUtil("secret", time.Hour).ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTUtil_ResetTokensAreNotSessions(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)

	reset, err := j.GenerateResetToken("user-1", "abc", 15*time.Minute)
	require.NoError(t, err)

	_, err = j.ValidateToken(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := j.ValidateResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Fingerprint)

	session, err := j.GenerateToken("user-1", "user")
	require.NoError(t, err)
	_, err = j.ValidateResetToken(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
