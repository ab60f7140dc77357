package fakecoderepo

import (
	"sync"

	"github.com/jrsteele09/go-token-server/authcode"
)

var _ authcode.Repo = (*FakeCodeRepo)(nil)

type FakeCodeRepo struct {
	codes map[string]*authcode.AuthorizationCode
	lock  sync.RWMutex
}

func NewFakeCodeRepo() authcode.Repo {
	return &FakeCodeRepo{
		codes: make(map[string]*authcode.AuthorizationCode),
	}
}

func (r *FakeCodeRepo) Upsert(code *authcode.AuthorizationCode) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.codes[code.Code] = code
	return nil
}

func (r *FakeCodeRepo) Get(code string) (*authcode.AuthorizationCode, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ac, ok := r.codes[code]
	if !ok {
		return nil, authcode.ErrNotFound
	}
	return ac, nil
}

func (r *FakeCodeRepo) Delete(code string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.codes[code]; !ok {
		return authcode.ErrNotFound
	}
	delete(r.codes, code)
	return nil
}
