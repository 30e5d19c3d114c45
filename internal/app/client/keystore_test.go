package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore")
	ks := NewKeystore(path)

	assert.False(t, ks.Exists())

	require.NoError(t, ks.Save("correct horse", "secret_abc123"))
	assert.True(t, ks.Exists())

	got, err := ks.Load("correct horse")
	require.NoError(t, err)
	assert.Equal(t, "secret_abc123", got)
}

func TestKeystore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore")
	ks := NewKeystore(path)

	require.NoError(t, ks.Save("right", "token"))

	_, err := ks.Load("wrong")
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestKeystore_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore")
	ks := NewKeystore(path)

	require.NoError(t, ks.Save("pass", "first"))
	require.NoError(t, ks.Save("pass", "second"))

	got, err := ks.Load("pass")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestKeystore_LoadMissingFile(t *testing.T) {
	ks := NewKeystore(filepath.Join(t.TempDir(), "nope"))

	_, err := ks.Load("any")
	assert.Error(t, err)
}
