package users_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-token-server/users"
	fakeuserrepo "github.com/jrsteele09/go-token-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const testPassword = "password123"

func setupAuthenticator(t *testing.T) (users.Repo, *users.PasswordAuthenticator) {
	t.Helper()

	repo := fakeuserrepo.NewFakeUserRepo()
	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)

	err = repo.Upsert(&users.User{
		ID:           "user-1",
		Username:     "john.doe",
		Email:        "john.doe@example.com",
		PasswordHash: hash,
		DateJoined:   time.Now(),
		Verified:     true,
	})
	require.NoError(t, err)

	return repo, users.NewPasswordAuthenticator(repo)
}

func TestPasswordAuthenticator_Success(t *testing.T) {
	_, auth := setupAuthenticator(t)

	principal, err := auth.Authenticate("john.doe", testPassword)
	require.NoError(t, err)
	require.Equal(t, "user-1", principal.UserID)
	require.Equal(t, "john.doe", principal.Username)
}

func TestPasswordAuthenticator_WrongPassword(t *testing.T) {
	_, auth := setupAuthenticator(t)

	_, err := auth.Authenticate("john.doe", "wrong")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestPasswordAuthenticator_UnknownUser(t *testing.T) {
	_, auth := setupAuthenticator(t)

	// Unknown users fail the same way as wrong passwords.
	_, err := auth.Authenticate("nobody", testPassword)
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestPasswordAuthenticator_BlockedUser(t *testing.T) {
	repo, auth := setupAuthenticator(t)
	require.NoError(t, repo.SetBlocked("john.doe", true))

	_, err := auth.Authenticate("john.doe", testPassword)
	require.ErrorIs(t, err, users.ErrUserBlocked)
}

func TestPasswordAuthenticator_UnverifiedUser(t *testing.T) {
	repo, auth := setupAuthenticator(t)
	require.NoError(t, repo.SetVerified("john.doe", false))

	_, err := auth.Authenticate("john.doe", testPassword)
	require.ErrorIs(t, err, users.ErrUserNotVerified)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	require.NotEqual(t, testPassword, hash)
	require.True(t, users.CheckPasswordHash(testPassword, hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
}
