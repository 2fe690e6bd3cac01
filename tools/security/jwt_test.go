package security

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	opts := Options{Secret: []byte("secret-1"), TTL: time.Hour}

	token, exp, err := Generate(opts, "user-1", "jti-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sess, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "jti-1", sess.TokenID)
	assert.WithinDuration(t, exp, sess.ExpiresAt, time.Second)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(Options{Secret: []byte("secret-1")}, "user-1", "jti-1")
	require.NoError(t, err)

	_, err = Verify(Options{Secret: []byte("secret-2")}, token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	secret := []byte("secret-1")
	claims := jwtlib.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(Options{Secret: secret}, token)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify(Options{Secret: []byte("secret-1")}, "not.a.token")
	assert.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	token, exp, err := Generate(Options{Secret: []byte("secret-1")}, "user-1", "jti-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(defaultTTL), exp, 5*time.Second)
}
