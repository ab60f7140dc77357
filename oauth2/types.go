package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges a one-time authorization code for tokens.
	// Used in: Standard Authorization Code Flow
	// Token request includes: code, client_id, redirect_uri
	// Returns: access_token and refresh_token
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id, client_secret, scope
	// Returns: access_token (refresh_token only when the client policy allows it)
	ClientCredentialsGrant GrantType = "client_credentials"

	// PasswordGrant exchanges resource-owner credentials for tokens.
	// Used in: First-party trusted applications
	// Token request includes: username, password, client_id, scope
	// Returns: access_token and refresh_token
	PasswordGrant GrantType = "password"

	// ImplicitGrant issues an access token directly from the authorization
	// endpoint. Never issues a refresh token.
	ImplicitGrant GrantType = "implicit"

	// RefreshTokenGrant exchanges a refresh token for a new token pair.
	// The presented refresh token is consumed whether or not the exchange
	// ultimately succeeds.
	RefreshTokenGrant GrantType = "refresh_token"
)

// TokenRequest carries the parameters of a token endpoint request.
// A nil Scopes slice means the client did not request specific scopes;
// both nil and empty trigger the client-scope fallback during reconciliation.
type TokenRequest struct {
	GrantType    GrantType
	ClientID     string
	Scopes       []string
	Code         string
	RedirectURI  *string
	Username     string
	Password     string
	RefreshToken string
}

// AuthorizationRequest captures an approved authorization decision: the
// client, the approving user, the redirect binding and the approved scopes.
// It is the state bound into an authorization code at generation time.
type AuthorizationRequest struct {
	ClientID    string
	Username    string
	RedirectURI *string
	Scopes      []string
	State       string
}
