package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT("test-secret", userID, "advertiser", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "advertiser", claims.Role)
	assert.Equal(t, "influmatch", claims.Issuer)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-a", uuid.New(), "influencer", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("secret-b", token)
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT("test-secret", uuid.New(), "influencer", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("test-secret", token)
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("test-secret", "not-a-token")
	assert.Error(t, err)
}
