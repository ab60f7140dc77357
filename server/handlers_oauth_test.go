package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-token-server/authcode"
	fakecoderepo "github.com/jrsteele09/go-token-server/authcode/repofake"
	"github.com/jrsteele09/go-token-server/clients"
	fakeclientrepo "github.com/jrsteele09/go-token-server/clients/fakerepo"
	"github.com/jrsteele09/go-token-server/grants"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/server"
	"github.com/jrsteele09/go-token-server/token"
	tokenrepofake "github.com/jrsteele09/go-token-server/token/repofake"
	"github.com/jrsteele09/go-token-server/users"
	fakeuserrepo "github.com/jrsteele09/go-token-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testUsername     = "john.doe"
	testUserPassword = "password123"
	testRedirectURI  = "http://localhost:3000/callback"
)

type serverFixture struct {
	srv        *server.Server
	clientRepo clients.Repo
	userRepo   users.Repo
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	clientRepo := fakeclientrepo.NewFakeClientRepo()
	userRepo := fakeuserrepo.NewFakeUserRepo()
	accessRepo := tokenrepofake.NewFakeAccessTokenRepo()
	refreshRepo := tokenrepofake.NewFakeRefreshTokenRepo()

	codes := authcode.NewService(fakecoderepo.NewFakeCodeRepo(), token.UUIDGenerator{}, 5*time.Minute)
	issuer := grants.NewIssuer(accessRepo, refreshRepo, token.UUIDGenerator{}, config.OAuth{})

	dispatcher := grants.NewDispatcher()
	dispatcher.Register(oauth2.AuthorizationCodeGrant, grants.NewAuthorizationCodeGranter(codes, issuer))
	dispatcher.Register(oauth2.ClientCredentialsGrant, grants.NewClientCredentialsGranter(issuer))
	dispatcher.Register(oauth2.PasswordGrant, grants.NewPasswordGranter(users.NewPasswordAuthenticator(userRepo), issuer))
	dispatcher.Register(oauth2.ImplicitGrant, grants.NewImplicitGranter(issuer))
	dispatcher.Register(oauth2.RefreshTokenGrant, grants.NewRefreshTokenGranter(accessRepo, refreshRepo, issuer))

	err := clientRepo.Upsert(&clients.Client{
		ID:           testClientID,
		Type:         clients.ClientTypeConfidential,
		Secret:       testClientSecret,
		RedirectURIs: []string{testRedirectURI},
		Scopes:       []string{"read", "write"},
		GrantTypes: []oauth2.GrantType{
			oauth2.AuthorizationCodeGrant,
			oauth2.ClientCredentialsGrant,
			oauth2.PasswordGrant,
			oauth2.ImplicitGrant,
			oauth2.RefreshTokenGrant,
		},
	})
	require.NoError(t, err)

	srv := server.New(config.New(), server.Services{
		Clients:    clientRepo,
		Codes:      codes,
		Dispatcher: dispatcher,
		Reader:     token.NewReadService(accessRepo, userRepo),
		Revoker:    token.NewClientRevokeService(accessRepo, refreshRepo),
	})

	return &serverFixture{srv: srv, clientRepo: clientRepo, userRepo: userRepo}
}

// postForm sends a form-encoded POST with client basic auth and decodes the
// JSON response into out (when out is non-nil).
func (f *serverFixture) postForm(t *testing.T, path string, form url.Values, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testClientID, testClientSecret)

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (f *serverFixture) issueToken(t *testing.T) map[string]any {
	t.Helper()

	var body map[string]any
	rec := f.postForm(t, server.RouteOAuth2Token, url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"read"},
	}, &body)
	require.Equal(t, http.StatusOK, rec.Code)
	return body
}

func TestTokenEndpoint_ClientCredentials(t *testing.T) {
	f := setupServerFixture(t)

	var body map[string]any
	rec := f.postForm(t, server.RouteOAuth2Token, url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"read write"},
	}, &body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "Bearer", body["token_type"])
	require.Equal(t, "read write", body["scope"])
	require.Empty(t, body["refresh_token"])
}

func TestTokenEndpoint_InvalidClientSecret(t *testing.T) {
	f := setupServerFixture(t)

	form := url.Values{"grant_type": {"client_credentials"}}
	req := httptest.NewRequest(http.MethodPost, server.RouteOAuth2Token, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testClientID, "wrong-secret")

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, oauth2.CodeInvalidClient, body["error"])
}

func TestTokenEndpoint_FormCredentials(t *testing.T) {
	f := setupServerFixture(t)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {testClientID},
		"client_secret": {testClientSecret},
	}
	req := httptest.NewRequest(http.MethodPost, server.RouteOAuth2Token, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenEndpoint_UnsupportedGrantType(t *testing.T) {
	f := setupServerFixture(t)

	var body map[string]any
	rec := f.postForm(t, server.RouteOAuth2Token, url.Values{
		"grant_type": {"device_code"},
	}, &body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, oauth2.CodeUnsupportedGrantType, body["error"])
}

func TestAuthorizeEndpoint_CodeFlow(t *testing.T) {
	f := setupServerFixture(t)

	var authBody map[string]any
	rec := f.postForm(t, server.RouteOAuth2Authorize, url.Values{
		"response_type": {"code"},
		"username":      {testUsername},
		"redirect_uri":  {testRedirectURI},
		"scope":         {"read"},
		"state":         {"xyz"},
	}, &authBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, authBody["code"])
	require.Equal(t, "xyz", authBody["state"])

	var tokenBody map[string]any
	rec = f.postForm(t, server.RouteOAuth2Token, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {authBody["code"].(string)},
		"redirect_uri": {testRedirectURI},
	}, &tokenBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, tokenBody["access_token"])
	require.NotEmpty(t, tokenBody["refresh_token"])
	require.Equal(t, "read", tokenBody["scope"])
}

func TestAuthorizeEndpoint_UnregisteredRedirectURI(t *testing.T) {
	f := setupServerFixture(t)

	var body map[string]any
	rec := f.postForm(t, server.RouteOAuth2Authorize, url.Values{
		"response_type": {"code"},
		"username":      {testUsername},
		"redirect_uri":  {"http://evil.example.com/callback"},
		"scope":         {"read"},
	}, &body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, oauth2.CodeInvalidRequest, body["error"])
}

func TestAuthorizeEndpoint_ImplicitFlow(t *testing.T) {
	f := setupServerFixture(t)

	var body map[string]any
	rec := f.postForm(t, server.RouteOAuth2Authorize, url.Values{
		"response_type": {"token"},
		"username":      {testUsername},
		"scope":         {"read"},
	}, &body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body["access_token"])
	require.Empty(t, body["refresh_token"])
}

func TestIntrospectEndpoint(t *testing.T) {
	f := setupServerFixture(t)
	issued := f.issueToken(t)

	t.Run("active token", func(t *testing.T) {
		var body map[string]any
		rec := f.postForm(t, server.RouteOAuth2Introspect, url.Values{
			"token": {issued["access_token"].(string)},
		}, &body)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, true, body["active"])
		require.Equal(t, "read", body["scope"])
	})

	t.Run("unknown token reads as inactive", func(t *testing.T) {
		var body map[string]any
		rec := f.postForm(t, server.RouteOAuth2Introspect, url.Values{
			"token": {"no-such-token"},
		}, &body)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, false, body["active"])
	})
}

func TestRevokeEndpoint(t *testing.T) {
	f := setupServerFixture(t)
	issued := f.issueToken(t)
	tokenValue := issued["access_token"].(string)

	rec := f.postForm(t, server.RouteOAuth2Revoke, url.Values{"token": {tokenValue}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The revoked token is now inactive.
	var body map[string]any
	rec = f.postForm(t, server.RouteOAuth2Introspect, url.Values{"token": {tokenValue}}, &body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["active"])

	// Revoking an unknown token still succeeds.
	rec = f.postForm(t, server.RouteOAuth2Revoke, url.Values{"token": {"no-such-token"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
