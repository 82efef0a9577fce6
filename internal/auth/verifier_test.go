package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestIdentity(t *testing.T) {
	a := Guest()
	b := Guest()

	assert.True(t, a.Anonymous())
	assert.True(t, strings.HasPrefix(a.Name, "guest-"))
	assert.Len(t, strings.TrimPrefix(a.Name, "guest-"), 6)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestDisabledVerifier(t *testing.T) {
	_, err := Disabled{}.Verify(context.Background(), "any-token")
	require.ErrorIs(t, err, ErrVerificationDisabled)
}

func TestDisplayNamePrecedence(t *testing.T) {
	cases := []struct {
		claims oidcClaims
		want   string
	}{
		{oidcClaims{Name: "Ada", PreferredUsername: "ada", Email: "a@x"}, "Ada"},
		{oidcClaims{PreferredUsername: "ada", Email: "a@x"}, "ada"},
		{oidcClaims{Email: "a@x"}, "a@x"},
		{oidcClaims{}, "user"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, displayName(&tc.claims))
	}
}

func TestIdentityFromClaims(t *testing.T) {
	ident := identityFromClaims(&oidcClaims{
		Name:             "Ada",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-123"},
	})
	require.NotNil(t, ident.Sub)
	assert.Equal(t, "sub-123", *ident.Sub)
	assert.False(t, ident.Anonymous())

	anon := identityFromClaims(&oidcClaims{Name: "Ada"})
	assert.True(t, anon.Anonymous())
}
