// Package ttlstore provides TTL-backed in-memory token repositories. Entries
// are retained for a window past their token's expiry so that reads can still
// distinguish an expired token from an unknown one, then garbage-collected.
package ttlstore

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/jrsteele09/go-token-server/token"
)

// DefaultRetention is how long a token entry outlives its own expiry before
// the cache collects it.
const DefaultRetention = 24 * time.Hour

var _ token.AccessTokenRepo = (*AccessTokenStore)(nil)

type AccessTokenStore struct {
	cache     *ttlcache.Cache[string, *token.AccessToken]
	retention time.Duration

	ownerLock sync.RWMutex
	owners    map[string]string // client+username key to token ID
}

func NewAccessTokenStore(retention time.Duration) *AccessTokenStore {
	if retention <= 0 {
		retention = DefaultRetention
	}

	s := &AccessTokenStore{
		cache:     ttlcache.New(ttlcache.WithDisableTouchOnHit[string, *token.AccessToken]()),
		retention: retention,
		owners:    make(map[string]string),
	}

	s.cache.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *token.AccessToken]) {
		s.dropOwner(item.Value())
	})

	go s.cache.Start()
	return s
}

func ownerKey(clientID, username string) string {
	return clientID + "\x00" + username
}

func (s *AccessTokenStore) dropOwner(t *token.AccessToken) {
	s.ownerLock.Lock()
	defer s.ownerLock.Unlock()
	if s.owners[ownerKey(t.ClientID, t.Username)] == t.ID {
		delete(s.owners, ownerKey(t.ClientID, t.Username))
	}
}

func (s *AccessTokenStore) Upsert(t *token.AccessToken) error {
	ttl := time.Until(t.ExpiresAt) + s.retention
	s.cache.Set(t.ID, t, ttl)

	s.ownerLock.Lock()
	defer s.ownerLock.Unlock()
	s.owners[ownerKey(t.ClientID, t.Username)] = t.ID
	return nil
}

func (s *AccessTokenStore) Get(id string) (*token.AccessToken, error) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, token.ErrNotFound
	}
	return item.Value(), nil
}

func (s *AccessTokenStore) GetByClientAndUsername(clientID, username string) (*token.AccessToken, error) {
	s.ownerLock.RLock()
	id, ok := s.owners[ownerKey(clientID, username)]
	s.ownerLock.RUnlock()
	if !ok {
		return nil, token.ErrNotFound
	}
	return s.Get(id)
}

func (s *AccessTokenStore) Delete(id string) error {
	item, present := s.cache.GetAndDelete(id)
	if !present {
		return token.ErrNotFound
	}
	s.dropOwner(item.Value())
	return nil
}

// Close stops the cache's cleanup goroutine.
func (s *AccessTokenStore) Close() {
	s.cache.Stop()
}

var _ token.RefreshTokenRepo = (*RefreshTokenStore)(nil)

type RefreshTokenStore struct {
	cache     *ttlcache.Cache[string, *token.RefreshToken]
	retention time.Duration
}

func NewRefreshTokenStore(retention time.Duration) *RefreshTokenStore {
	if retention <= 0 {
		retention = DefaultRetention
	}

	s := &RefreshTokenStore{
		cache:     ttlcache.New(ttlcache.WithDisableTouchOnHit[string, *token.RefreshToken]()),
		retention: retention,
	}

	go s.cache.Start()
	return s
}

func (s *RefreshTokenStore) Upsert(rt *token.RefreshToken) error {
	ttl := time.Until(rt.ExpiresAt) + s.retention
	s.cache.Set(rt.ID, rt, ttl)
	return nil
}

func (s *RefreshTokenStore) Get(id string) (*token.RefreshToken, error) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, token.ErrNotFound
	}
	return item.Value(), nil
}

func (s *RefreshTokenStore) Delete(id string) error {
	if _, present := s.cache.GetAndDelete(id); !present {
		return token.ErrNotFound
	}
	return nil
}

// Close stops the cache's cleanup goroutine.
func (s *RefreshTokenStore) Close() {
	s.cache.Stop()
}
