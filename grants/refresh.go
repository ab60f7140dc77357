package grants

import (
	"errors"

	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	pkgerrors "github.com/pkg/errors"
)

// RefreshTokenGranter rotates refresh tokens. The presented refresh token is
// deleted immediately after lookup, before expiry or ownership checks: a
// client presenting an expired or stolen refresh token still burns it, so no
// refresh token is ever redeemable twice. A failed validation does not roll
// the deletion back.
type RefreshTokenGranter struct {
	accessTokens  token.AccessTokenRepo
	refreshTokens token.RefreshTokenRepo
	issuer        *Issuer
}

var _ Granter = (*RefreshTokenGranter)(nil)

func NewRefreshTokenGranter(accessTokens token.AccessTokenRepo, refreshTokens token.RefreshTokenRepo, issuer *Issuer) *RefreshTokenGranter {
	return &RefreshTokenGranter{
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		issuer:        issuer,
	}
}

func (g *RefreshTokenGranter) Grant(client *clients.Client, request oauth2.TokenRequest) (*token.AccessTokenDetails, error) {
	if request.RefreshToken == "" {
		return nil, oauth2.NewInvalidRequest("refresh_token parameter is required")
	}

	rt, err := g.refreshTokens.Get(request.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil, oauth2.NewInvalidGrant("refresh token not found")
		}
		return nil, pkgerrors.Wrap(err, "RefreshTokenGranter.Grant Get")
	}

	// Consume before validating.
	if err := g.refreshTokens.Delete(rt.ID); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			// Lost a concurrent redemption race.
			return nil, oauth2.NewInvalidGrant("refresh token not found")
		}
		return nil, pkgerrors.Wrap(err, "RefreshTokenGranter.Grant Delete")
	}

	old, err := g.accessTokens.Get(rt.AccessTokenID)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil, oauth2.NewInvalidGrant("refresh token has no owning access token")
		}
		return nil, pkgerrors.Wrap(err, "RefreshTokenGranter.Grant access Get")
	}

	if old.ClientID != client.ID {
		return nil, oauth2.NewInvalidClient("refresh token was issued to another client")
	}
	if rt.IsExpired(g.issuer.Now()) {
		return nil, oauth2.NewInvalidGrant("refresh token expired")
	}
	if !client.ValidateScopes(request.Scopes) {
		return nil, oauth2.NewInvalidScope("requested scopes are not allowed for this client")
	}

	// Scope fallback is against the requesting client's allowed scopes,
	// not the old token's granted set.
	return g.issuer.Issue(client, IssueSpec{
		GrantType:        oauth2.RefreshTokenGrant,
		Username:         old.Username,
		Scopes:           client.GrantScopes(request.Scopes),
		WithRefreshToken: true,
	})
}
