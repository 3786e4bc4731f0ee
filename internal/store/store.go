// Package store provides a pluggable key-value store used for session
// tokens and the global task status.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: key not found")

// Store is the interface implemented by all key-value backends.
type Store interface {
	// Set stores a key-value pair with an optional TTL (0 means no expiry).
	Set(key string, value []byte, ttl time.Duration) error
	// Get retrieves a value by key, returning ErrNotFound when absent.
	Get(key string) ([]byte, error)
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error
	// Exists reports whether a key is present.
	Exists(key string) (bool, error)
	// Clear removes all keys.
	Clear() error
	// Close releases any resources held by the store.
	Close() error
}
