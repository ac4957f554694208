package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-32-characters"

func TestGenerateAndParseAccessToken(t *testing.T) {
	js := NewJwtService(testSecret)
	accountID := uuid.New()

	access, err := js.GenerateAccessToken(accountID, "alice@example.com", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
	assert.True(t, access.Expiry.After(time.Now()))

	claims, err := js.ParseAccessToken(access.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, DefaultIssuer, claims.Issuer)

	parsed, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, accountID, parsed)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	js := NewJwtService(testSecret)
	other := NewJwtService("a-completely-different-secret!!!")

	access, err := js.GenerateAccessToken(uuid.New(), "alice@example.com", "alice")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(access.Token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	js := NewJwtService(testSecret, WithAccessTokenExpiry(-time.Minute))

	access, err := js.GenerateAccessToken(uuid.New(), "alice@example.com", "alice")
	require.NoError(t, err)

	_, err = js.ParseAccessToken(access.Token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	js := NewJwtService(testSecret)

	_, err := js.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestOptionOverrides(t *testing.T) {
	js := NewJwtService(testSecret,
		WithIssuer("custom"),
		WithAudience("clients"),
		WithAccessTokenExpiry(time.Hour))

	access, err := js.GenerateAccessToken(uuid.New(), "alice@example.com", "alice")
	require.NoError(t, err)

	claims, err := js.ParseAccessToken(access.Token)
	require.NoError(t, err)
	assert.Equal(t, "custom", claims.Issuer)
	assert.Contains(t, claims.Audience, "clients")
	assert.WithinDuration(t, time.Now().Add(time.Hour), access.Expiry, time.Minute)
}
