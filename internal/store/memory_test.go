package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryStoreSetGet tests basic set/get operations
func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set("key", []byte("value"), 0))

	value, err := s.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	_, err = s.Get("missing")
	assert.Equal(t, ErrNotFound, err)
}

// TestMemoryStoreTTL tests expiry
func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set("ephemeral", []byte("x"), 20*time.Millisecond))

	exists, err := s.Exists("ephemeral")
	require.NoError(t, err)
	assert.True(t, exists)

	time.Sleep(40 * time.Millisecond)

	_, err = s.Get("ephemeral")
	assert.Equal(t, ErrNotFound, err)
	exists, err = s.Exists("ephemeral")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestMemoryStoreDelete tests deletion
func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set("key", []byte("value"), 0))
	require.NoError(t, s.Delete("key"))

	_, err := s.Get("key")
	assert.Equal(t, ErrNotFound, err)

	// Deleting a missing key is not an error.
	assert.NoError(t, s.Delete("missing"))
}

// TestMemoryStoreClear tests clearing all keys
func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Clear())

	_, err := s.Get("a")
	assert.Equal(t, ErrNotFound, err)
	_, err = s.Get("b")
	assert.Equal(t, ErrNotFound, err)
}

// TestMemoryStoreCloseIsIdempotent tests double close
func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
