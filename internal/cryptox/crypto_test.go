package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap keeps the tests fast.
var cheap = Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey([]byte("pw"), []byte("salt-salt"), cheap)
	b := DeriveKey([]byte("pw"), []byte("salt-salt"), cheap)
	assert.Len(t, a, 32)
	assert.True(t, bytes.Equal(a, b))

	c := DeriveKey([]byte("pw2"), []byte("salt-salt"), cheap)
	assert.False(t, bytes.Equal(a, c))
}

func TestHashAndVerify(t *testing.T) {
	h := HashPassword([]byte("secret"), cheap)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$"), h)

	ok, err := VerifyPassword(h, []byte("secret"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(h, []byte("Secret"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	assert.NotEqual(t, HashPassword([]byte("secret"), cheap), HashPassword([]byte("secret"), cheap))
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, enc := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$***$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$",
	} {
		_, err := VerifyPassword(enc, []byte("x"))
		assert.ErrorIs(t, err, ErrMalformedHash, enc)
	}
}
