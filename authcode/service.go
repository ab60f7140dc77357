package authcode

import (
	"time"

	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/pkg/errors"
)

// Service generates authorization codes for approved authorization requests
// and consumes them at redemption time.
type Service struct {
	repo      Repo
	generator token.IDGenerator
	ttl       time.Duration
	nowFunc   func() time.Time
}

type ServiceOption func(*Service)

// WithNowFunc sets the service clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = nowFunc
	}
}

func NewService(repo Repo, generator token.IDGenerator, ttl time.Duration, options ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		generator: generator,
		ttl:       ttl,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Generate creates a code, binds the authorization request into it and
// persists it.
func (s *Service) Generate(request oauth2.AuthorizationRequest) (*AuthorizationCode, error) {
	code, err := New(s.generator, s.nowFunc(), s.ttl)
	if err != nil {
		return nil, err
	}
	if err := code.SetAuthorizationRequest(request); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(code); err != nil {
		return nil, errors.Wrap(err, "authcode.Service.Generate Upsert")
	}
	return code, nil
}

// Consume reads and deletes a code. At most one caller succeeds per code:
// the repo's Delete reports ErrNotFound when another redemption got there
// first, and that loss is surfaced as a not-found failure here.
func (s *Service) Consume(code string) (*AuthorizationCode, error) {
	ac, err := s.repo.Get(code)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(code); err != nil {
		return nil, err
	}
	return ac, nil
}
