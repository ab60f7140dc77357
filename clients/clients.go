package clients

import (
	"time"

	"github.com/jrsteele09/go-token-server/oauth2"
)

type ClientType string

const (
	ClientTypeConfidential ClientType = "confidential" // Can keep secrets (server-side apps)
	ClientTypePublic       ClientType = "public"       // Cannot keep secrets (SPAs, mobile apps)
)

// Client holds the token-relevant attributes of a registered OAuth2 client:
// the grant types it may use, the scopes it may be granted, its redirect
// bindings and its token validity windows.
type Client struct {
	ID                 string             `json:"id"`
	Type               ClientType         `json:"type"` // public or confidential
	Description        string             `json:"description"`
	Secret             string             `json:"secret"`
	RedirectURIs       []string           `json:"redirectURIs"`
	Scopes             []string           `json:"scopes"`     // Allowed scopes for this client
	GrantTypes         []oauth2.GrantType `json:"grantTypes"` // Allowed grant types for this client
	AccessTokenExpiry  time.Duration      `json:"accessTokenExpiry"`
	RefreshTokenExpiry time.Duration      `json:"refreshTokenExpiry"`

	// AllowRefreshToken controls whether client_credentials grants may issue
	// a refresh token. Defaults to false.
	AllowRefreshToken bool `json:"allowRefreshToken"`
}

// IsPublic returns true if the client is a public client
func (c *Client) IsPublic() bool {
	return c.Type == ClientTypePublic
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// AllowsGrantType checks if the client is registered for a specific grant type
func (c *Client) AllowsGrantType(grantType oauth2.GrantType) bool {
	for _, gt := range c.GrantTypes {
		if gt == grantType {
			return true
		}
	}
	return false
}

// ValidateScopes reports whether the requested scope set is authorized for
// this client. A nil request is valid (the caller falls back to the client's
// own scopes); otherwise every requested scope must be in the allowed set.
// A false result is a hard invalid_scope failure, never a silent narrowing.
func (c *Client) ValidateScopes(requestedScopes []string) bool {
	if requestedScopes == nil {
		return true
	}
	for _, scope := range requestedScopes {
		if !c.HasScope(scope) {
			return false
		}
	}
	return true
}

// GrantScopes computes the effective scope set for a grant. Requesting no
// scopes (nil or empty) grants the client's full allowed set; otherwise the
// grant is exactly the requested set. Callers gate non-empty requests through
// ValidateScopes first - this is derivation, not authorization.
func (c *Client) GrantScopes(requestedScopes []string) []string {
	if len(requestedScopes) == 0 {
		granted := make([]string, len(c.Scopes))
		copy(granted, c.Scopes)
		return granted
	}
	granted := make([]string, len(requestedScopes))
	copy(granted, requestedScopes)
	return granted
}

// HasRedirectURI checks if a redirect URI is registered for this client
func (c *Client) HasRedirectURI(redirectURI string) bool {
	for _, uri := range c.RedirectURIs {
		if uri == redirectURI {
			return true
		}
	}
	return false
}
