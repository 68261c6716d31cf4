package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "hunter2"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	// Issued against the real clock: expiry is validated at parse time.
	token, err := CreateToken(secret, 42, "st-marys", "admin@stmarys.org", time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)

	id, err := claims.OrganisationID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "st-marys", claims.Slug)
	assert.Equal(t, "admin@stmarys.org", claims.AdminEmail)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := CreateToken([]byte("secret-a"), 1, "a", "a@a", time.Now())
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}
