package grants

import (
	"errors"

	"github.com/jrsteele09/go-token-server/authcode"
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	pkgerrors "github.com/pkg/errors"
)

// AuthorizationCodeGranter redeems one-time authorization codes. The code is
// consumed (deleted) before validation, so a failed redemption still burns it.
type AuthorizationCodeGranter struct {
	codes  *authcode.Service
	issuer *Issuer
}

var _ Granter = (*AuthorizationCodeGranter)(nil)

func NewAuthorizationCodeGranter(codes *authcode.Service, issuer *Issuer) *AuthorizationCodeGranter {
	return &AuthorizationCodeGranter{codes: codes, issuer: issuer}
}

func (g *AuthorizationCodeGranter) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	if request.Code == "" {
		return nil, oauth2.NewInvalidRequest("code parameter is required")
	}

	code, err := g.codes.Consume(request.Code)
	if err != nil {
		if errors.Is(err, authcode.ErrNotFound) {
			return nil, oauth2.NewInvalidRequest("authorization code not found")
		}
		return nil, pkgerrors.Wrap(err, "AuthorizationCodeGranter.Grant Consume")
	}

	// The user must have approved a concrete scope set; a code without one
	// is not redeemable.
	if len(code.Scopes) == 0 {
		return nil, oauth2.NewInvalidScope("authorization code carries no approved scopes")
	}
	if !client.ValidateScopes(code.Scopes) {
		return nil, oauth2.NewInvalidScope("approved scopes are not allowed for this client")
	}
	if err := code.ValidateWithRequest(request, g.issuer.Now()); err != nil {
		return nil, err
	}

	return g.issuer.Issue(client, IssueSpec{
		GrantType:        oauth2.AuthorizationCodeGrant,
		Username:         code.Username,
		Scopes:           code.Scopes,
		WithRefreshToken: true,
	})
}
