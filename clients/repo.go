package clients

import "errors"

// ErrNotFound is returned by Repo implementations when no client exists
// for the given ID.
var ErrNotFound = errors.New("client not found")

type Repo interface {
	Upsert(clientData *Client) error
	Delete(clientID string) error
	Get(clientID string) (*Client, error)
	List(offset, limit int) ([]*Client, error)
}
