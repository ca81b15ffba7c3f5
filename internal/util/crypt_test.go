package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrypt(t *testing.T) {

	key := []byte("0123456789abcdef") // 16 bytes, AES-128

	t.Run("round_trip", func(t *testing.T) {
		plain := "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

		encrypted, err := Encrypt(key, plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, encrypted)

		decrypted, err := Decrypt(key, encrypted)
		require.NoError(t, err)
		assert.Equal(t, plain, decrypted)
	})

	t.Run("random_iv", func(t *testing.T) {
		a, err := Encrypt(key, "same input")
		require.NoError(t, err)
		b, err := Encrypt(key, "same input")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("bad_key_length", func(t *testing.T) {
		_, err := Encrypt([]byte("short"), "x")
		assert.Error(t, err)
	})

	t.Run("not_hex", func(t *testing.T) {
		_, err := Decrypt(key, "zz-not-hex")
		assert.Error(t, err)
	})

	t.Run("too_short", func(t *testing.T) {
		_, err := Decrypt(key, "abcd")
		assert.Error(t, err)
	})
}
