// Package grants implements the OAuth2 token-issuance engine: one Granter
// per grant type, a shared Issuer for token construction and persistence,
// and a Dispatcher routing token requests to the right Granter.
package grants

import (
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
)

// Granter issues an access token for a single OAuth2 grant type. Each grant
// type applies its own validation and derivation rules, then hands the
// issuance spec to the shared Issuer.
type Granter interface {
	Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error)
}
