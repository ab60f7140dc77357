package token

import (
	"time"

	"github.com/jrsteele09/go-token-server/oauth2"
)

// AccessToken is an issued bearer credential. All fields except
// AdditionalInfo are set once at construction; AdditionalInfo is the only
// post-construction mutation point and is typically written by an Enhancer.
type AccessToken struct {
	ID             string
	ClientID       string
	Username       string // empty for client_credentials issued tokens
	GrantType      oauth2.GrantType
	Scopes         []string
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RefreshToken   *RefreshToken
	ComposeKey     string // dedup key identifying the logical (client, scopes, user) grant
	AdditionalInfo map[string]string
}

// NewAccessToken constructs an access token from an already-generated id.
// Id generation is an explicit step before construction so that access and
// refresh tokens can use different generators.
func NewAccessToken(id, clientID, username string, grantType oauth2.GrantType, scopes []string, issuedAt time.Time, validity time.Duration) *AccessToken {
	return &AccessToken{
		ID:             id,
		ClientID:       clientID,
		Username:       username,
		GrantType:      grantType,
		Scopes:         scopes,
		IssuedAt:       issuedAt,
		ExpiresAt:      issuedAt.Add(validity),
		AdditionalInfo: make(map[string]string),
	}
}

// IsExpired reports whether the token has expired at the given instant.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ExpiresIn returns the number of whole seconds until expiration, never
// negative.
func (t *AccessToken) ExpiresIn(now time.Time) int64 {
	seconds := int64(t.ExpiresAt.Sub(now) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

// SetAdditionalInfo attaches a key/value pair to the token.
func (t *AccessToken) SetAdditionalInfo(key, value string) {
	if t.AdditionalInfo == nil {
		t.AdditionalInfo = make(map[string]string)
	}
	t.AdditionalInfo[key] = value
}

// RefreshToken is an owned sub-entity of exactly one AccessToken. It is
// consumed (read then deleted) at most once by the refresh_token grant.
type RefreshToken struct {
	ID            string
	AccessTokenID string
	ExpiresAt     time.Time
}

// NewRefreshToken constructs a refresh token bound to its owning access token.
func NewRefreshToken(id, accessTokenID string, issuedAt time.Time, validity time.Duration) *RefreshToken {
	return &RefreshToken{
		ID:            id,
		AccessTokenID: accessTokenID,
		ExpiresAt:     issuedAt.Add(validity),
	}
}

// IsExpired reports whether the refresh token has expired at the given instant.
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}
