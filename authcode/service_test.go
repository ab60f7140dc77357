package authcode_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-token-server/authcode"
	fakecoderepo "github.com/jrsteele09/go-token-server/authcode/repofake"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/stretchr/testify/require"
)

func newTestService() *authcode.Service {
	return authcode.NewService(fakecoderepo.NewFakeCodeRepo(), token.UUIDGenerator{}, 5*time.Minute,
		authcode.WithNowFunc(func() time.Time { return testNow }))
}

func TestService_GeneratePersistsBoundCode(t *testing.T) {
	svc := newTestService()

	code, err := svc.Generate(oauth2.AuthorizationRequest{
		ClientID: "client-1",
		Username: "john.doe",
		Scopes:   []string{"read"},
		State:    "state-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, code.Code)
	require.Equal(t, "client-1", code.ClientID)
	require.Equal(t, "john.doe", code.Username)
	require.Equal(t, testNow.Add(5*time.Minute), code.ExpiresAt)

	consumed, err := svc.Consume(code.Code)
	require.NoError(t, err)
	require.Equal(t, code.Code, consumed.Code)
	require.Equal(t, "state-1", consumed.State)
}

func TestService_ConsumeIsAtMostOnce(t *testing.T) {
	svc := newTestService()

	code, err := svc.Generate(oauth2.AuthorizationRequest{
		ClientID: "client-1",
		Username: "john.doe",
		Scopes:   []string{"read"},
	})
	require.NoError(t, err)

	_, err = svc.Consume(code.Code)
	require.NoError(t, err)

	_, err = svc.Consume(code.Code)
	require.ErrorIs(t, err, authcode.ErrNotFound)
}

func TestService_ConsumeUnknownCode(t *testing.T) {
	svc := newTestService()

	_, err := svc.Consume("no-such-code")
	require.ErrorIs(t, err, authcode.ErrNotFound)
}

func TestService_GeneratedCodesAreUnique(t *testing.T) {
	svc := newTestService()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := svc.Generate(oauth2.AuthorizationRequest{
			ClientID: "client-1",
			Username: "john.doe",
			Scopes:   []string{"read"},
		})
		require.NoError(t, err)
		require.False(t, seen[code.Code])
		seen[code.Code] = true
	}
}
