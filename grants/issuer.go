package grants

import (
	"errors"
	"time"

	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	pkgerrors "github.com/pkg/errors"
)

// IssueSpec is what a Granter derives from its grant-specific rules: who the
// token is for, which scopes it carries and whether the grant comes with a
// refresh token or a compose key.
type IssueSpec struct {
	GrantType        oauth2.GrantType
	Username         string
	Scopes           []string
	WithRefreshToken bool
	WithComposeKey   bool
}

// Issuer holds the issuance machinery shared by every Granter: token
// construction, replace-on-reissue, the enhancer hook and persistence.
// Granters compose it rather than inheriting from it.
type Issuer struct {
	accessTokens  token.AccessTokenRepo
	refreshTokens token.RefreshTokenRepo
	accessGen     token.IDGenerator
	refreshGen    token.IDGenerator // nil means fall back to accessGen
	composeGen    token.ComposeKeyGenerator
	enhancer      token.Enhancer
	config        config.OAuthConfig
	nowFunc       func() time.Time
}

type IssuerOption func(*Issuer)

// WithNowFunc sets the issuer clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = nowFunc
	}
}

// WithRefreshGenerator sets a distinct id generator for refresh tokens,
// allowing a different id scheme or entropy than access tokens.
func WithRefreshGenerator(gen token.IDGenerator) IssuerOption {
	return func(i *Issuer) {
		i.refreshGen = gen
	}
}

// WithEnhancer sets the token enhancer hook.
func WithEnhancer(enhancer token.Enhancer) IssuerOption {
	return func(i *Issuer) {
		i.enhancer = enhancer
	}
}

// WithComposeKeyGenerator sets the compose key generator.
func WithComposeKeyGenerator(gen token.ComposeKeyGenerator) IssuerOption {
	return func(i *Issuer) {
		i.composeGen = gen
	}
}

func NewIssuer(accessTokens token.AccessTokenRepo, refreshTokens token.RefreshTokenRepo, accessGen token.IDGenerator, cfg config.OAuthConfig, options ...IssuerOption) *Issuer {
	i := &Issuer{
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		accessGen:     accessGen,
		composeGen:    token.DigestComposeKeyGenerator{},
		enhancer:      token.NoopEnhancer{},
		config:        cfg,
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Now returns the issuer's current time. Granters that need the clock share
// it through here so that the whole grant path observes one time source.
func (i *Issuer) Now() time.Time {
	return i.nowFunc()
}

// Issue builds, persists and projects an access token for the given client
// and spec. Any existing token for the same (client, username) pair is
// replaced: its refresh token and itself are deleted before the new token is
// saved. The replacement is best effort - two concurrent grants for the same
// pair may race, leaving eventual rather than strict uniqueness.
func (i *Issuer) Issue(client *clients.Client, spec IssueSpec) (*token.AccessTokenDetails, error) {
	now := i.nowFunc()

	id, err := i.accessGen.Generate()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Issuer.Issue access Generate")
	}

	t := token.NewAccessToken(id, client.ID, spec.Username, spec.GrantType, spec.Scopes, now, i.accessTokenExpiry(client))

	if spec.WithComposeKey {
		t.ComposeKey = i.composeGen.Generate(t)
	}

	if spec.WithRefreshToken {
		refreshID, err := i.refreshGenerator().Generate()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "Issuer.Issue refresh Generate")
		}
		t.RefreshToken = token.NewRefreshToken(refreshID, t.ID, now, i.refreshTokenExpiry(client))
	}

	if err := i.replaceExisting(client.ID, spec.Username); err != nil {
		return nil, err
	}

	if err := i.enhancer.Enhance(t); err != nil {
		return nil, pkgerrors.Wrap(err, "Issuer.Issue Enhance")
	}

	if t.RefreshToken != nil {
		if err := i.refreshTokens.Upsert(t.RefreshToken); err != nil {
			return nil, pkgerrors.Wrap(err, "Issuer.Issue refresh Upsert")
		}
	}
	if err := i.accessTokens.Upsert(t); err != nil {
		return nil, pkgerrors.Wrap(err, "Issuer.Issue access Upsert")
	}

	return t.Details(now), nil
}

// replaceExisting deletes any stored token for the (client, username) pair,
// cascading to its refresh token.
func (i *Issuer) replaceExisting(clientID, username string) error {
	existing, err := i.accessTokens.GetByClientAndUsername(clientID, username)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil
		}
		return pkgerrors.Wrap(err, "Issuer.replaceExisting GetByClientAndUsername")
	}

	if existing.RefreshToken != nil {
		if err := i.refreshTokens.Delete(existing.RefreshToken.ID); err != nil && !errors.Is(err, token.ErrNotFound) {
			return pkgerrors.Wrap(err, "Issuer.replaceExisting refresh Delete")
		}
	}
	if err := i.accessTokens.Delete(existing.ID); err != nil && !errors.Is(err, token.ErrNotFound) {
		return pkgerrors.Wrap(err, "Issuer.replaceExisting access Delete")
	}
	return nil
}

func (i *Issuer) refreshGenerator() token.IDGenerator {
	if i.refreshGen != nil {
		return i.refreshGen
	}
	return i.accessGen
}

func (i *Issuer) accessTokenExpiry(client *clients.Client) time.Duration {
	if client.AccessTokenExpiry > 0 {
		return client.AccessTokenExpiry
	}
	return i.config.GetDefaultAccessTokenExpiry()
}

func (i *Issuer) refreshTokenExpiry(client *clients.Client) time.Duration {
	if client.RefreshTokenExpiry > 0 {
		return client.RefreshTokenExpiry
	}
	return i.config.GetDefaultRefreshTokenExpiry()
}
