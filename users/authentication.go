package users

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrUserNotVerified    = errors.New("user is not verified")
)

// Principal is the identity established by a successful authentication. Its
// username is authoritative and may differ from the raw request username
// after normalization.
type Principal struct {
	UserID   string
	Username string
}

// AuthenticationManager verifies resource-owner credentials on behalf of the
// password grant.
type AuthenticationManager interface {
	Authenticate(username, password string) (*Principal, error)
}

// PasswordAuthenticator checks credentials against the user repository using
// bcrypt. Blocked and unverified users cannot authenticate.
type PasswordAuthenticator struct {
	repo Repo
}

var _ AuthenticationManager = (*PasswordAuthenticator)(nil)

func NewPasswordAuthenticator(repo Repo) *PasswordAuthenticator {
	return &PasswordAuthenticator{repo: repo}
}

func (a *PasswordAuthenticator) Authenticate(username, password string) (*Principal, error) {
	user, err := a.repo.GetByUsername(username)
	if err != nil {
		// Same failure as a wrong password, to avoid username probing.
		return nil, ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, ErrUserBlocked
	}
	if !user.Verified {
		return nil, ErrUserNotVerified
	}
	return &Principal{UserID: user.ID, Username: user.Username}, nil
}
