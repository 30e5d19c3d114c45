package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptor(t *testing.T) {
	t.Run("EmptySecret", func(t *testing.T) {
		_, err := NewEncryptor("")
		assert.Error(t, err)
	})

	t.Run("HexKey", func(t *testing.T) {
		enc, err := NewEncryptor(strings.Repeat("ab", 32))
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})

	t.Run("Passphrase", func(t *testing.T) {
		enc, err := NewEncryptor("just a passphrase")
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor("test-secret")
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte("secret-api-token"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "secret-api-token")

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret-api-token", string(opened))
}

func TestEncryptor_NonDeterministic(t *testing.T) {
	enc, err := NewEncryptor("test-secret")
	require.NoError(t, err)

	first, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)
	second, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestEncryptor_WrongKey(t *testing.T) {
	enc, err := NewEncryptor("key-one")
	require.NoError(t, err)
	other, err := NewEncryptor("key-two")
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.Error(t, err)
}
