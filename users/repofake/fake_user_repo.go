package fakeuserrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-token-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users map[string]*users.User // keyed by username
	lock  sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

func (r *FakeUserRepo) Upsert(user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.users[user.Username] = user
	return nil
}

func (r *FakeUserRepo) Delete(username string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.users, username)
	return nil
}

func (r *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user, nil
}

func (r *FakeUserRepo) GetByID(id string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, users.ErrNotFound
}

func (r *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*users.User, 0, len(r.users))
	for _, v := range r.users {
		list = append(list, v)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Username < list[j].Username
	})

	if offset > len(list) {
		return nil, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (r *FakeUserRepo) SetBlocked(username string, blocked bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	user, ok := r.users[username]
	if !ok {
		return users.ErrNotFound
	}
	user.Blocked = blocked
	return nil
}

func (r *FakeUserRepo) SetVerified(username string, verified bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	user, ok := r.users[username]
	if !ok {
		return users.ErrNotFound
	}
	user.Verified = verified
	return nil
}
