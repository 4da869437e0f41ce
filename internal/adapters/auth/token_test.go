package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("test-secret")

	token, err := issuer.Issue("user-123", "max@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("other-secret")

	token, err := issuer.Issue("user-123", "max@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("test-secret")

	token, err := issuer.Issue("user-123", "max@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWT_Garbage(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")
	_, err := verifier.Verify("not.a.jwt")
	assert.Error(t, err)
}
