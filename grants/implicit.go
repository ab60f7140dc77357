package grants

import (
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
)

// ImplicitGranter issues tokens directly from an authorization decision.
// Never issues a refresh token.
type ImplicitGranter struct {
	issuer *Issuer
}

var _ Granter = (*ImplicitGranter)(nil)

func NewImplicitGranter(issuer *Issuer) *ImplicitGranter {
	return &ImplicitGranter{issuer: issuer}
}

func (g *ImplicitGranter) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	return g.issuer.Issue(client, IssueSpec{
		GrantType: oauth2.ImplicitGrant,
		Username:  request.Username,
		Scopes:    client.GrantScopes(request.Scopes),
	})
}
