package store

import (
	"testing"

	"lingo-hub/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConfig only answers GetRedisDSN; the factory touches nothing else.
type stubConfig struct {
	types.ConfigManager
	redisDSN string
}

func (s *stubConfig) GetRedisDSN() string {
	return s.redisDSN
}

// TestNewStoreDefaultsToMemory tests backend selection without a Redis DSN
func TestNewStoreDefaultsToMemory(t *testing.T) {
	s, err := NewStore(&stubConfig{})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*MemoryStore)
	assert.True(t, ok, "expected the in-memory store")
}

// TestNewStoreInvalidRedisDSN tests the error path for a malformed DSN
func TestNewStoreInvalidRedisDSN(t *testing.T) {
	_, err := NewStore(&stubConfig{redisDSN: "://not-a-dsn"})
	assert.Error(t, err)
}
