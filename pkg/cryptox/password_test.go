package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	t.Run("correct password verifies", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Secret1", hash))
	})

	t.Run("wrong password is a mismatch", func(t *testing.T) {
		err := VerifyPassword("x", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		other, err := HashPassword("Secret1")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
		require.NoError(t, VerifyPassword("Secret1", other))
	})
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":         "",
		"not argon2id":  "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"wrong version": "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA",
		"bad params":    "$argon2id$v=19$m=what$c2FsdA$aGFzaA",
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			err := VerifyPassword("password", encoded)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}
