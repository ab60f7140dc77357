package authcode

import "errors"

// ErrNotFound is returned when no code exists for the given value. Delete
// must return it when nothing was removed: consumption relies on exactly one
// caller observing a successful delete per code.
var ErrNotFound = errors.New("authorization code not found")

type Repo interface {
	Get(code string) (*AuthorizationCode, error)
	Upsert(code *AuthorizationCode) error
	Delete(code string) error
}
