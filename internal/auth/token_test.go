package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/career-api/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	token, expires, err := tm.GenerateToken("u1", domain.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expires, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("u1", domain.RoleAdmin)
	require.NoError(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "u1"})
	signed, err := none.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword("", "wrong"), ErrPasswordMismatch)
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
