package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)

	raw, err := issuer.Issue("user-1", "operator")
	require.NoError(t, err)

	cu, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, CurrentUser{ID: "user-1", Username: "operator"}, cu)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := issuer.Issue("user-1", "operator")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_RejectsForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)

	other, err := NewTokenIssuer("another-secret-987654", time.Hour).Issue("user-1", "operator")
	require.NoError(t, err)
	_, err = issuer.Parse(other)
	assert.Error(t, err)

	// unsigned tokens must never pass
	none := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{
		Username: "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(raw)
	assert.Error(t, err)
}
