package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// IDGenerator produces opaque token identifiers. Implementations own any
// collision handling; the core treats generated ids as unique.
type IDGenerator interface {
	Generate() (string, error)
}

// UUIDGenerator generates random UUID token ids. The default for access tokens.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (string, error) {
	return uuid.NewString(), nil
}

const defaultRandomLength = 32 // 32 bytes = 256 bits

// RandomGenerator generates hex-encoded random ids of a configurable byte
// length. Used for refresh tokens, which carry a longer id than access tokens.
type RandomGenerator struct {
	length int
}

func NewRandomGenerator(length int) RandomGenerator {
	if length <= 0 {
		length = defaultRandomLength
	}
	return RandomGenerator{length: length}
}

func (g RandomGenerator) Generate() (string, error) {
	tokenBytes := make([]byte, g.length)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "RandomGenerator.Generate rand.Read")
	}
	return hex.EncodeToString(tokenBytes), nil
}

// ComposeKeyGenerator derives the dedup key identifying the logical
// (client, scopes, user) grant a token represents.
type ComposeKeyGenerator interface {
	Generate(t *AccessToken) string
}

// DigestComposeKeyGenerator computes a SHA-256 digest of the client id, the
// sorted scope set and the username (when present). Deterministic: two tokens
// for the same logical grant always produce the same key.
type DigestComposeKeyGenerator struct{}

func (DigestComposeKeyGenerator) Generate(t *AccessToken) string {
	scopes := make([]string, len(t.Scopes))
	copy(scopes, t.Scopes)
	sort.Strings(scopes)

	h := sha256.New()
	h.Write([]byte(t.ClientID))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(scopes, " ")))
	if t.Username != "" {
		h.Write([]byte{0})
		h.Write([]byte(t.Username))
	}
	return hex.EncodeToString(h.Sum(nil))
}
