package grants

import (
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
)

// Dispatcher routes token requests to the Granter registered for the
// request's grant type. Registration is explicit: the composition root wires
// one Granter per supported grant type.
type Dispatcher struct {
	granters map[oauth2.GrantType]Granter
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		granters: make(map[oauth2.GrantType]Granter),
	}
}

// Register wires a granter for a grant type, replacing any previous one.
func (d *Dispatcher) Register(grantType oauth2.GrantType, granter Granter) {
	d.granters[grantType] = granter
}

// Grant dispatches a token request. Unregistered grant types fail with
// unsupported_grant_type; clients not registered for the requested grant
// type fail with unauthorized_client.
func (d *Dispatcher) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	granter, ok := d.granters[request.GrantType]
	if !ok {
		return nil, oauth2.NewUnsupportedGrantType(request.GrantType)
	}
	if !client.AllowsGrantType(request.GrantType) {
		return nil, oauth2.NewUnauthorizedClient("grant type not allowed for this client")
	}
	return granter.Grant(client, request)
}
