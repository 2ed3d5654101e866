package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)

		_, err = GenerateToken(-8)
		require.Error(t, err)
	})

	t.Run("encodes the requested number of bytes", func(t *testing.T) {
		token, err := GenerateToken(TokenSize512)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, TokenSize512)
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		a, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		b, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, FingerprintToken("opaque"), FingerprintToken("opaque"))
	})

	t.Run("distinct inputs produce distinct fingerprints", func(t *testing.T) {
		require.NotEqual(t, FingerprintToken("opaque"), FingerprintToken("opaque2"))
	})

	t.Run("fingerprint is 43 chars of base64url", func(t *testing.T) {
		fp := FingerprintToken("anything")
		require.Len(t, fp, 43)

		_, err := base64.RawURLEncoding.DecodeString(fp)
		require.NoError(t, err)
	})
}
