package grants

import (
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
)

// ClientCredentialsGranter issues machine-to-machine tokens with no resource
// owner. A refresh token is issued only when the client's policy allows it;
// the compose key is always set so reissues of the same logical grant can be
// deduplicated.
type ClientCredentialsGranter struct {
	issuer *Issuer
}

var _ Granter = (*ClientCredentialsGranter)(nil)

func NewClientCredentialsGranter(issuer *Issuer) *ClientCredentialsGranter {
	return &ClientCredentialsGranter{issuer: issuer}
}

func (g *ClientCredentialsGranter) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	if !client.ValidateScopes(request.Scopes) {
		return nil, oauth2.NewInvalidScope("requested scopes are not allowed for this client")
	}

	return g.issuer.Issue(client, IssueSpec{
		GrantType:        oauth2.ClientCredentialsGrant,
		Scopes:           client.GrantScopes(request.Scopes),
		WithRefreshToken: client.AllowRefreshToken,
		WithComposeKey:   true,
	})
}
