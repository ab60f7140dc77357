// Package ttlstore provides a TTL-backed in-memory authorization code store.
// Unredeemed codes are garbage-collected when their expiration window passes.
package ttlstore

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/jrsteele09/go-token-server/authcode"
)

var _ authcode.Repo = (*CodeStore)(nil)

type CodeStore struct {
	cache *ttlcache.Cache[string, *authcode.AuthorizationCode]
}

func NewCodeStore() *CodeStore {
	s := &CodeStore{
		cache: ttlcache.New(ttlcache.WithDisableTouchOnHit[string, *authcode.AuthorizationCode]()),
	}
	go s.cache.Start()
	return s
}

func (s *CodeStore) Upsert(code *authcode.AuthorizationCode) error {
	s.cache.Set(code.Code, code, time.Until(code.ExpiresAt))
	return nil
}

func (s *CodeStore) Get(code string) (*authcode.AuthorizationCode, error) {
	item := s.cache.Get(code)
	if item == nil {
		return nil, authcode.ErrNotFound
	}
	return item.Value(), nil
}

// Delete removes a code, reporting ErrNotFound when another redemption
// already removed it. GetAndDelete keeps check and removal atomic.
func (s *CodeStore) Delete(code string) error {
	if _, present := s.cache.GetAndDelete(code); !present {
		return authcode.ErrNotFound
	}
	return nil
}

// Close stops the cache's cleanup goroutine.
func (s *CodeStore) Close() {
	s.cache.Stop()
}
