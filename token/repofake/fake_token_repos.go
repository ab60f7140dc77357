package tokenrepofake

import (
	"sync"

	"github.com/jrsteele09/go-token-server/token"
)

var _ token.AccessTokenRepo = (*FakeAccessTokenRepo)(nil)

type FakeAccessTokenRepo struct {
	tokens map[string]*token.AccessToken
	owners map[string]string // client+username key to token ID
	lock   sync.RWMutex
}

func NewFakeAccessTokenRepo() *FakeAccessTokenRepo {
	return &FakeAccessTokenRepo{
		tokens: make(map[string]*token.AccessToken),
		owners: make(map[string]string),
	}
}

func ownerKey(clientID, username string) string {
	return clientID + "\x00" + username
}

func (r *FakeAccessTokenRepo) Upsert(t *token.AccessToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[t.ID] = t
	r.owners[ownerKey(t.ClientID, t.Username)] = t.ID
	return nil
}

func (r *FakeAccessTokenRepo) Get(id string) (*token.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, token.ErrNotFound
	}
	return t, nil
}

func (r *FakeAccessTokenRepo) GetByClientAndUsername(clientID, username string) (*token.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.owners[ownerKey(clientID, username)]
	if !ok {
		return nil, token.ErrNotFound
	}
	t, ok := r.tokens[id]
	if !ok {
		return nil, token.ErrNotFound
	}
	return t, nil
}

func (r *FakeAccessTokenRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return token.ErrNotFound
	}
	if r.owners[ownerKey(t.ClientID, t.Username)] == id {
		delete(r.owners, ownerKey(t.ClientID, t.Username))
	}
	delete(r.tokens, id)
	return nil
}

// Count reports the number of stored access tokens.
func (r *FakeAccessTokenRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}

var _ token.RefreshTokenRepo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*token.RefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*token.RefreshToken),
	}
}

func (r *FakeRefreshTokenRepo) Upsert(rt *token.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[rt.ID] = rt
	return nil
}

func (r *FakeRefreshTokenRepo) Get(id string) (*token.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rt, ok := r.tokens[id]
	if !ok {
		return nil, token.ErrNotFound
	}
	return rt, nil
}

func (r *FakeRefreshTokenRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return token.ErrNotFound
	}
	delete(r.tokens, id)
	return nil
}

// Count reports the number of stored refresh tokens.
func (r *FakeRefreshTokenRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}
