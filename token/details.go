package token

import "time"

// TokenTypeBearer is the only token type this server issues.
const TokenTypeBearer = "Bearer"

// RefreshTokenDetails is the outward view of an issued refresh token.
type RefreshTokenDetails struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AccessTokenDetails is the immutable outward projection of an issued access
// token, consumed by the endpoint layer.
type AccessTokenDetails struct {
	Token          string               `json:"token"`
	TokenType      string               `json:"tokenType"`
	Username       string               `json:"username,omitempty"`
	Scopes         []string             `json:"scopes"`
	ExpiresIn      int64                `json:"expiresIn"`
	RefreshToken   *RefreshTokenDetails `json:"refreshToken,omitempty"`
	AdditionalInfo map[string]string    `json:"additionalInfo,omitempty"`
}

// Details projects the token for the given instant. The projection copies
// scopes and additional info so later entity mutation cannot leak outward.
func (t *AccessToken) Details(now time.Time) *AccessTokenDetails {
	scopes := make([]string, len(t.Scopes))
	copy(scopes, t.Scopes)

	var info map[string]string
	if len(t.AdditionalInfo) > 0 {
		info = make(map[string]string, len(t.AdditionalInfo))
		for k, v := range t.AdditionalInfo {
			info[k] = v
		}
	}

	details := &AccessTokenDetails{
		Token:          t.ID,
		TokenType:      TokenTypeBearer,
		Username:       t.Username,
		Scopes:         scopes,
		ExpiresIn:      t.ExpiresIn(now),
		AdditionalInfo: info,
	}

	if t.RefreshToken != nil {
		seconds := int64(t.RefreshToken.ExpiresAt.Sub(now) / time.Second)
		if seconds < 0 {
			seconds = 0
		}
		details.RefreshToken = &RefreshTokenDetails{
			Token:     t.RefreshToken.ID,
			ExpiresIn: seconds,
		}
	}

	return details
}
