package grants

import (
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/jrsteele09/go-token-server/users"
)

// PasswordGranter exchanges resource-owner credentials for tokens. Credential
// checking is delegated to the AuthenticationManager; the issued token
// carries the authenticated principal's username, which may differ from the
// raw request username after normalization.
type PasswordGranter struct {
	authenticator users.AuthenticationManager
	issuer        *Issuer
}

var _ Granter = (*PasswordGranter)(nil)

func NewPasswordGranter(authenticator users.AuthenticationManager, issuer *Issuer) *PasswordGranter {
	return &PasswordGranter{authenticator: authenticator, issuer: issuer}
}

func (g *PasswordGranter) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	if request.Username == "" || request.Password == "" {
		return nil, oauth2.NewInvalidRequest("username and password parameters are required")
	}
	if !client.ValidateScopes(request.Scopes) {
		return nil, oauth2.NewInvalidScope("requested scopes are not allowed for this client")
	}

	principal, err := g.authenticator.Authenticate(request.Username, request.Password)
	if err != nil {
		return nil, oauth2.NewAccessDenied(err.Error())
	}

	return g.issuer.Issue(client, IssueSpec{
		GrantType:        oauth2.PasswordGrant,
		Username:         principal.Username,
		Scopes:           client.GrantScopes(request.Scopes),
		WithRefreshToken: true,
	})
}
