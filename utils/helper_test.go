package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("mello1234")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("mello1234", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateTokenCarriesSessionID(t *testing.T) {
	token, sessionID, err := GenerateToken(42, "hanifah", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return JwtKey(), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "hanifah", claims.Username)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestEachLoginGetsFreshSession(t *testing.T) {
	_, first, err := GenerateToken(1, "u", "user")
	require.NoError(t, err)
	_, second, err := GenerateToken(1, "u", "user")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
