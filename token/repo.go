package token

import "errors"

// ErrNotFound is returned by repo implementations when no token exists for
// the given id. Delete reports it when nothing was removed, which lets
// read-then-delete consumption detect a lost race.
var ErrNotFound = errors.New("token not found")

type AccessTokenRepo interface {
	Get(id string) (*AccessToken, error)
	GetByClientAndUsername(clientID, username string) (*AccessToken, error)
	Upsert(t *AccessToken) error
	Delete(id string) error
}

type RefreshTokenRepo interface {
	Get(id string) (*RefreshToken, error)
	Upsert(rt *RefreshToken) error
	Delete(id string) error
}
