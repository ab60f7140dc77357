package users

import "errors"

// ErrNotFound is returned by Repo implementations when no user exists for
// the given username or ID.
var ErrNotFound = errors.New("user not found")

type Repo interface {
	Upsert(user *User) error
	Delete(username string) error
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
	List(offset, limit int) ([]*User, error)
	SetBlocked(username string, blocked bool) error
	SetVerified(username string, verified bool) error
}
