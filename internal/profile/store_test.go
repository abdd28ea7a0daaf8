package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	store := NewFileStore(path)

	_, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyHandle, "h-123"))
	require.NoError(t, store.Set(KeyDisplayName, "Alice"))

	value, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "h-123", value)

	// A second store over the same file sees the persisted values
	reopened := NewFileStore(path)
	value, ok, err = reopened.Get(KeyDisplayName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice", value)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "profile.json"))

	require.NoError(t, store.Set(KeyColor, "#e6194b"))
	require.NoError(t, store.Set(KeyColor, "#3cb44b"))

	value, ok, err := store.Get(KeyColor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#3cb44b", value)
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := NewFileStore(path)

	_, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.False(t, ok)

	// The next write replaces the corrupt file
	require.NoError(t, store.Set(KeyHandle, "h-123"))
	value, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "h-123", value)
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	_, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyHandle, "h-123"))
	value, ok, err := store.Get(KeyHandle)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "h-123", value)

	store.FailWrites = true
	assert.Error(t, store.Set(KeyHandle, "h-456"))

	// Reads still work and see the last successful write
	value, _, err = store.Get(KeyHandle)
	require.NoError(t, err)
	assert.Equal(t, "h-123", value)
}
