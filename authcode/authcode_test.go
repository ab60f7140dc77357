package authcode_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-token-server/authcode"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func newBoundCode(t *testing.T, redirectURI *string) *authcode.AuthorizationCode {
	t.Helper()

	code, err := authcode.New(token.UUIDGenerator{}, testNow, 5*time.Minute)
	require.NoError(t, err)

	err = code.SetAuthorizationRequest(oauth2.AuthorizationRequest{
		ClientID:    "client-1",
		Username:    "john.doe",
		RedirectURI: redirectURI,
		Scopes:      []string{"read"},
		State:       "state-1",
	})
	require.NoError(t, err)
	return code
}

func TestAuthorizationCode_BindsOnce(t *testing.T) {
	code := newBoundCode(t, nil)

	err := code.SetAuthorizationRequest(oauth2.AuthorizationRequest{ClientID: "client-2"})
	require.ErrorIs(t, err, authcode.ErrAlreadyBound)
	require.Equal(t, "client-1", code.ClientID)
}

func TestAuthorizationCode_IsExpired(t *testing.T) {
	code := newBoundCode(t, nil)
	require.False(t, code.IsExpired(testNow))
	require.False(t, code.IsExpired(testNow.Add(5*time.Minute)))
	require.True(t, code.IsExpired(testNow.Add(5*time.Minute+time.Second)))
}

func TestAuthorizationCode_ValidateWithRequest(t *testing.T) {
	uri := "http://localhost:3000/callback"

	t.Run("valid request", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-1",
			RedirectURI: strPtr(uri),
		}, testNow)
		require.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-1",
			RedirectURI: strPtr(uri),
		}, testNow.Add(time.Hour))
		require.ErrorIs(t, err, oauth2.ErrInvalidGrant)
	})

	t.Run("redirect mismatch", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-1",
			RedirectURI: strPtr("http://evil.example.com/callback"),
		}, testNow)
		require.ErrorIs(t, err, oauth2.ErrInvalidGrant)
	})

	t.Run("stored URI requires matching candidate", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID: "client-1",
		}, testNow)
		require.ErrorIs(t, err, oauth2.ErrInvalidGrant)
	})

	t.Run("absent URI only matches absent candidate", func(t *testing.T) {
		code := newBoundCode(t, nil)
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID: "client-1",
		}, testNow)
		require.NoError(t, err)

		err = code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-1",
			RedirectURI: strPtr(uri),
		}, testNow)
		require.ErrorIs(t, err, oauth2.ErrInvalidGrant)
	})

	t.Run("client mismatch", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-2",
			RedirectURI: strPtr(uri),
		}, testNow)
		require.ErrorIs(t, err, oauth2.ErrInvalidClient)
	})

	t.Run("expiry is checked before redirect binding", func(t *testing.T) {
		code := newBoundCode(t, strPtr(uri))
		err := code.ValidateWithRequest(oauth2.TokenRequest{
			ClientID:    "client-2",
			RedirectURI: strPtr("http://evil.example.com/callback"),
		}, testNow.Add(time.Hour))
		require.ErrorIs(t, err, oauth2.ErrInvalidGrant)
		require.Contains(t, err.Error(), "expired")
	})
}
