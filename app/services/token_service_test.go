package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-that-is-long-enough-for-hmac"

func newTestTokenService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecretKey, ttl, "pulse-test")
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	svc, err := NewTokenService("", time.Hour, "pulse-test")
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestGenerateAndValidateDemoToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", claims.Subject)
	assert.Equal(t, "Demo User", claims.Name)
	assert.Equal(t, "demo@example.com", claims.Email)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestGenerateDemoTokenUniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	first, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)
	second, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)

	firstClaims, err := svc.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := svc.ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := svc.ValidateToken(token)
		require.Error(t, err)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	other, err := NewTokenService("a-completely-different-secret-key-here", time.Hour, "pulse-test")
	require.NoError(t, err)

	token, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)

	claims, err := other.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := &TokenServiceImpl{
		secretKey: []byte(testSecretKey),
		ttl:       -time.Minute,
		issuer:    "pulse-test",
	}

	token, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestNewTokenServiceDefaultsTTL(t *testing.T) {
	svc, err := NewTokenService(testSecretKey, 0, "pulse-test")
	require.NoError(t, err)

	token, err := svc.GenerateDemoToken("Demo User", "demo@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}
