package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("secret", "acct-1", "Admin", 15*time.Minute)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "acct-1", claims.Subject)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("secret", "acct-1", "User", 15*time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("secret", "acct-1", "User", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.Error(t, err)
}

func TestNewOpaqueToken(t *testing.T) {
	first, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.Len(t, first, 80, "40 bytes hex-encoded")

	second, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
