// AngelaMos | 2026
// security_test.go

package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	passwords := []string{
		"hunter22",
		"correct horse battery staple",
		"ünïcødé-pässwörd",
		strings.Repeat("x", MaxPasswordLength),
	}

	for _, p := range passwords {
		hash, err := HashPassword(p)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
		assert.True(t, VerifyPassword(p, hash), "password %q should verify", p)
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("first-password")
	require.NoError(t, err)

	assert.False(t, VerifyPassword("second-password", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputTooLong))

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "password", ve.Field)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not-a-hash",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuuO1u5x7z6Ubq7H1x8v6bJ9y3Cq8Ww1S",
		"wrong version": "$argon2id$v=1$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"bad params":    "$argon2id$v=19$m=x,t=1,p=4$c2FsdA$aGFzaA",
		"zero cost":     "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"empty hash":    "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, VerifyPassword("whatever", encoded))
		})
	}
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, VerifyPasswordTimingSafe("s3cret-pass", &hash))
	assert.False(t, VerifyPasswordTimingSafe("s3cret-pass", nil))

	empty := ""
	assert.False(t, VerifyPasswordTimingSafe("s3cret-pass", &empty))
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("current-params")
	require.NoError(t, err)

	assert.False(t, NeedsRehash(hash))
	assert.True(t, NeedsRehash("$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA"))
	assert.True(t, NeedsRehash("garbage"))
}
