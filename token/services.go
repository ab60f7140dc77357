package token

import (
	"errors"
	"time"

	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/users"
	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrAccessTokenNotFound is returned when no token exists for the
	// presented value.
	ErrAccessTokenNotFound = errors.New("access token not found")

	// ErrAccessTokenExpired is returned when the token exists but has
	// expired. Expired tokens are not deleted on read; deletion is a
	// separate, explicit act.
	ErrAccessTokenExpired = errors.New("access token expired")
)

// ReadService looks up issued access tokens and resolves their resource owner.
type ReadService struct {
	accessTokens AccessTokenRepo
	userRepo     users.Repo
	nowFunc      func() time.Time
}

type ReadServiceOption func(*ReadService)

// WithReadNowFunc sets the read service clock (primarily for testing).
func WithReadNowFunc(nowFunc func() time.Time) ReadServiceOption {
	return func(s *ReadService) {
		s.nowFunc = nowFunc
	}
}

func NewReadService(accessTokens AccessTokenRepo, userRepo users.Repo, options ...ReadServiceOption) *ReadService {
	s := &ReadService{
		accessTokens: accessTokens,
		userRepo:     userRepo,
		nowFunc:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ReadAccessToken returns the details of a live token. Not-found and expired
// are distinct failures so callers can report them differently.
func (s *ReadService) ReadAccessToken(tokenValue string) (*AccessTokenDetails, error) {
	t, err := s.lookup(tokenValue)
	if err != nil {
		return nil, err
	}
	return t.Details(s.nowFunc()), nil
}

// ReadAccessTokenUser resolves the token's resource owner. Tokens issued
// without a user (client_credentials) carry no resource owner to resolve.
func (s *ReadService) ReadAccessTokenUser(tokenValue string) (*users.User, error) {
	t, err := s.lookup(tokenValue)
	if err != nil {
		return nil, err
	}
	if t.Username == "" {
		return nil, oauth2.NewInvalidRequest("token has no resource owner")
	}
	user, err := s.userRepo.GetByUsername(t.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "ReadService.ReadAccessTokenUser GetByUsername")
	}
	return user, nil
}

func (s *ReadService) lookup(tokenValue string) (*AccessToken, error) {
	t, err := s.accessTokens.Get(tokenValue)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAccessTokenNotFound
		}
		return nil, pkgerrors.Wrap(err, "ReadService.lookup Get")
	}
	if t.IsExpired(s.nowFunc()) {
		return nil, ErrAccessTokenExpired
	}
	return t, nil
}

// ClientRevokeService revokes tokens on behalf of an authenticated client.
// Only the client a token was issued to may revoke it. Wired as an
// alternative to UserRevokeService, never alongside it.
type ClientRevokeService struct {
	accessTokens  AccessTokenRepo
	refreshTokens RefreshTokenRepo
	nowFunc       func() time.Time
}

func NewClientRevokeService(accessTokens AccessTokenRepo, refreshTokens RefreshTokenRepo) *ClientRevokeService {
	return &ClientRevokeService{
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		nowFunc:       time.Now,
	}
}

// Revoke deletes the token and its refresh token, returning a projection of
// the now-deleted token. The requesting client must own the token.
func (s *ClientRevokeService) Revoke(tokenValue, requestingClientID string) (*AccessTokenDetails, error) {
	t, err := s.accessTokens.Get(tokenValue)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAccessTokenNotFound
		}
		return nil, pkgerrors.Wrap(err, "ClientRevokeService.Revoke Get")
	}
	if t.ClientID != requestingClientID {
		return nil, oauth2.NewInvalidClient("token belongs to another client")
	}
	if err := deleteTokenPair(s.accessTokens, s.refreshTokens, t); err != nil {
		return nil, err
	}
	return t.Details(s.nowFunc()), nil
}

// UserRevokeService revokes tokens on behalf of an authenticated resource
// owner. Only the user a token was issued for may revoke it.
type UserRevokeService struct {
	accessTokens  AccessTokenRepo
	refreshTokens RefreshTokenRepo
	nowFunc       func() time.Time
}

func NewUserRevokeService(accessTokens AccessTokenRepo, refreshTokens RefreshTokenRepo) *UserRevokeService {
	return &UserRevokeService{
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		nowFunc:       time.Now,
	}
}

// Revoke deletes the token and its refresh token, returning a projection of
// the now-deleted token. The requesting user must be the token's resource owner.
func (s *UserRevokeService) Revoke(tokenValue, requestingUsername string) (*AccessTokenDetails, error) {
	t, err := s.accessTokens.Get(tokenValue)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAccessTokenNotFound
		}
		return nil, pkgerrors.Wrap(err, "UserRevokeService.Revoke Get")
	}
	if t.Username != requestingUsername {
		return nil, oauth2.NewAccessDenied("token belongs to another user")
	}
	if err := deleteTokenPair(s.accessTokens, s.refreshTokens, t); err != nil {
		return nil, err
	}
	return t.Details(s.nowFunc()), nil
}

// deleteTokenPair removes an access token and cascades to its refresh token.
func deleteTokenPair(accessTokens AccessTokenRepo, refreshTokens RefreshTokenRepo, t *AccessToken) error {
	if t.RefreshToken != nil {
		if err := refreshTokens.Delete(t.RefreshToken.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return pkgerrors.Wrap(err, "token.deleteTokenPair refresh Delete")
		}
	}
	if err := accessTokens.Delete(t.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return pkgerrors.Wrap(err, "token.deleteTokenPair access Delete")
	}
	return nil
}
