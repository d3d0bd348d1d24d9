package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordFallsBackOnInvalidCost(t *testing.T) {
	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}

func TestNewAccessTokenCarriesClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "ADMIN", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestNewAccessTokenRejectedWithWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret", 1, "CUSTOMER", 15)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshTokenIsRandomAndHashable(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)

	// same input, same digest; different inputs diverge
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	assert.NotEqual(t, HashRefreshRaw(a.Raw), HashRefreshRaw(b.Raw))
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
}
