package server

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	pkgerrors "github.com/pkg/errors"
)

// authenticateClient resolves and authenticates the requesting client from
// HTTP basic auth or from client_id/client_secret form fields. Confidential
// clients must present the correct secret; public clients authenticate by
// identifier alone.
func (s *Server) authenticateClient(r *http.Request) (*clients.Client, error) {
	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID = r.PostFormValue("client_id")
		clientSecret = r.PostFormValue("client_secret")
	}
	if clientID == "" {
		return nil, oauth2.NewInvalidClient("client authentication required")
	}

	client, err := s.services.Clients.Get(clientID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, oauth2.NewInvalidClient("unknown client")
		}
		return nil, pkgerrors.Wrap(err, "Server.authenticateClient Get")
	}

	if client.IsPublic() {
		return client, nil
	}
	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(clientSecret)) != 1 {
		return nil, oauth2.NewInvalidClient("invalid client credentials")
	}
	return client, nil
}
