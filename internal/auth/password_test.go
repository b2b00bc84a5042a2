package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"), "expected PHC argon2id format, got %q", hash)

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	// Fresh salt per call: same input, different digests, both verify.
	assert.NotEqual(t, h1, h2)

	ok, err := VerifyPassword("same-password", h1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = VerifyPassword("same-password", h2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$only-four-parts",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	} {
		ok, err := VerifyPassword("secret", hash)
		assert.Error(t, err, "hash %q", hash)
		assert.False(t, ok)
	}
}

func TestVerifyPasswordUsesEncodedParams(t *testing.T) {
	// A hash produced under different parameters still verifies because
	// the parameters travel inside the PHC string.
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("portable"), salt, 1, 16*1024, 1, 32)
	hash := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 16*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	ok, err := VerifyPassword("portable", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
