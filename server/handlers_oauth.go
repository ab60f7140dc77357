package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
)

// tokenResponse is the RFC 6749 §5.1 success body for the token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// authorizeResponse carries a freshly generated authorization code back to
// the caller. A browser-facing deployment would redirect instead; this
// server's authorization endpoint is API-only.
type authorizeResponse struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// introspectResponse is the RFC 7662 introspection body. Inactive tokens
// carry only Active=false.
type introspectResponse struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// TokenHandler exchanges grant credentials for tokens.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("failed to parse form data"))
			return
		}

		client, err := s.authenticateClient(r)
		if err != nil {
			s.writeOAuthError(w, err)
			return
		}

		request := oauth2.TokenRequest{
			GrantType:    oauth2.GrantType(r.FormValue("grant_type")),
			ClientID:     client.ID,
			Scopes:       splitScope(r.FormValue("scope")),
			Code:         r.FormValue("code"),
			RedirectURI:  optionalFormValue(r, "redirect_uri"),
			Username:     r.FormValue("username"),
			Password:     r.FormValue("password"),
			RefreshToken: r.FormValue("refresh_token"),
		}

		details, err := s.services.Dispatcher.Grant(client, request)
		if err != nil {
			s.writeOAuthError(w, err)
			return
		}

		resp := tokenResponse{
			AccessToken: details.Token,
			TokenType:   details.TokenType,
			ExpiresIn:   details.ExpiresIn,
			Scope:       strings.Join(details.Scopes, " "),
		}
		if details.RefreshToken != nil {
			resp.RefreshToken = details.RefreshToken.Token
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// AuthorizeHandler records an approved authorization decision and returns an
// authorization code or, for response_type=token, an access token directly.
// The resource owner is taken from the username field: interactive login is
// handled upstream of this server.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("failed to parse form data"))
			return
		}

		client, err := s.authenticateClient(r)
		if err != nil {
			s.writeOAuthError(w, err)
			return
		}

		redirectURI := optionalFormValue(r, "redirect_uri")
		if redirectURI != nil && !client.HasRedirectURI(*redirectURI) {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("redirect_uri is not registered for this client"))
			return
		}

		username := r.FormValue("username")
		if username == "" {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("username parameter is required"))
			return
		}

		requestedScopes := splitScope(r.FormValue("scope"))
		if !client.ValidateScopes(requestedScopes) {
			s.writeOAuthError(w, oauth2.NewInvalidScope("requested scopes are not allowed for this client"))
			return
		}

		switch r.FormValue("response_type") {
		case "code":
			code, err := s.services.Codes.Generate(oauth2.AuthorizationRequest{
				ClientID:    client.ID,
				Username:    username,
				RedirectURI: redirectURI,
				Scopes:      client.GrantScopes(requestedScopes),
				State:       r.FormValue("state"),
			})
			if err != nil {
				s.writeOAuthError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			_ = json.NewEncoder(w).Encode(authorizeResponse{Code: code.Code, State: code.State})

		case "token":
			details, err := s.services.Dispatcher.Grant(client, oauth2.TokenRequest{
				GrantType: oauth2.ImplicitGrant,
				ClientID:  client.ID,
				Scopes:    requestedScopes,
				Username:  username,
			})
			if err != nil {
				s.writeOAuthError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			_ = json.NewEncoder(w).Encode(tokenResponse{
				AccessToken: details.Token,
				TokenType:   details.TokenType,
				ExpiresIn:   details.ExpiresIn,
				Scope:       strings.Join(details.Scopes, " "),
			})

		default:
			s.writeOAuthError(w, oauth2.NewInvalidRequest("response_type must be code or token"))
		}
	}
}

// IntrospectHandler reports whether a presented token is live (RFC 7662).
// Lookup failures never leak why: unknown and expired both read as inactive.
func (s *Server) IntrospectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("failed to parse form data"))
			return
		}

		if _, err := s.authenticateClient(r); err != nil {
			s.writeOAuthError(w, err)
			return
		}

		tokenValue := r.FormValue("token")
		if tokenValue == "" {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("token parameter is required"))
			return
		}

		details, err := s.services.Reader.ReadAccessToken(tokenValue)
		if err != nil {
			if errors.Is(err, token.ErrAccessTokenNotFound) || errors.Is(err, token.ErrAccessTokenExpired) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				_ = json.NewEncoder(w).Encode(introspectResponse{Active: false})
				return
			}
			s.logger.Error().Err(err).Msg("introspection lookup failed")
			s.writeOAuthError(w, oauth2.NewServerError("token lookup failed"))
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(introspectResponse{
			Active:    true,
			Scope:     strings.Join(details.Scopes, " "),
			Username:  details.Username,
			TokenType: details.TokenType,
			ExpiresIn: details.ExpiresIn,
		})
	}
}

// RevokeHandler revokes a token on behalf of the client it was issued to
// (RFC 7009). Revoking an unknown token succeeds: the desired end state
// already holds.
func (s *Server) RevokeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("failed to parse form data"))
			return
		}

		client, err := s.authenticateClient(r)
		if err != nil {
			s.writeOAuthError(w, err)
			return
		}

		tokenValue := r.FormValue("token")
		if tokenValue == "" {
			s.writeOAuthError(w, oauth2.NewInvalidRequest("token parameter is required"))
			return
		}

		if _, err := s.services.Revoker.Revoke(tokenValue, client.ID); err != nil {
			if errors.Is(err, token.ErrAccessTokenNotFound) {
				w.WriteHeader(http.StatusOK)
				return
			}
			s.writeOAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// writeOAuthError maps an error onto an RFC 6749 JSON error body and status.
// Anything that is not an *oauth2.Error is an internal failure and is logged
// before being masked as server_error.
func (s *Server) writeOAuthError(w http.ResponseWriter, err error) {
	var oautherr *oauth2.Error
	if !errors.As(err, &oautherr) {
		s.logger.Error().Err(err).Msg("internal error")
		oautherr = oauth2.NewServerError("internal error")
	}

	status := http.StatusBadRequest
	switch oautherr.Code {
	case oauth2.CodeInvalidClient:
		status = http.StatusUnauthorized
		w.Header().Set("WWW-Authenticate", `Basic realm="oauth2"`)
	case oauth2.CodeServerError:
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(oautherr)
}

// splitScope parses a space-delimited scope parameter. An absent parameter
// stays nil so scope reconciliation sees "no scopes requested".
func splitScope(scope string) []string {
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}

func optionalFormValue(r *http.Request, key string) *string {
	if !r.Form.Has(key) {
		return nil
	}
	v := r.FormValue(key)
	return &v
}
