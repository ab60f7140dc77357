package authcode

import (
	"time"

	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/pkg/errors"
)

// ErrAlreadyBound is returned when SetAuthorizationRequest is called on a
// code that already carries a request.
var ErrAlreadyBound = errors.New("authorization code already bound to a request")

// AuthorizationCode is a short-lived, one-time-use opaque value binding a
// user's approval decision to a specific client, redirect URI and scope set.
// A code is created empty (code and expiry only) and bound exactly once to
// the originating authorization request before it is persisted.
type AuthorizationCode struct {
	Code        string
	ExpiresAt   time.Time
	ClientID    string
	Username    string
	RedirectURI *string
	Scopes      []string
	State       string

	bound bool
}

// New creates an empty code with its expiration window. Request data is
// attached separately via SetAuthorizationRequest.
func New(generator token.IDGenerator, now time.Time, ttl time.Duration) (*AuthorizationCode, error) {
	code, err := generator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "authcode.New Generate")
	}
	return &AuthorizationCode{
		Code:      code,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// SetAuthorizationRequest binds the originating request into the code.
// Callable exactly once.
func (c *AuthorizationCode) SetAuthorizationRequest(request oauth2.AuthorizationRequest) error {
	if c.bound {
		return ErrAlreadyBound
	}
	c.ClientID = request.ClientID
	c.Username = request.Username
	c.RedirectURI = request.RedirectURI
	c.Scopes = request.Scopes
	c.State = request.State
	c.bound = true
	return nil
}

// IsExpired reports whether the code has expired at the given instant.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ValidateWithRequest checks a redemption-time token request against the
// request the code was bound to. Checks run in order: expiry, redirect
// binding, client binding. Absence of an error is success. The caller must
// delete the code whatever the outcome.
func (c *AuthorizationCode) ValidateWithRequest(request oauth2.TokenRequest, now time.Time) error {
	if c.IsExpired(now) {
		return oauth2.NewInvalidGrant("authorization code expired")
	}
	if !redirectURIMatches(c.RedirectURI, request.RedirectURI) {
		return oauth2.NewInvalidGrant("redirect_uri does not match the authorization request")
	}
	if c.ClientID != request.ClientID {
		return oauth2.NewInvalidClient("authorization code was issued to another client")
	}
	return nil
}

// redirectURIMatches applies the asymmetric null rule: a stored nil URI only
// matches a nil candidate, and a stored URI must equal the candidate exactly.
func redirectURIMatches(stored, candidate *string) bool {
	if stored == nil {
		return candidate == nil
	}
	if candidate == nil {
		return false
	}
	return *stored == *candidate
}
