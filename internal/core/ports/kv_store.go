package ports

import (
	"context"
	"time"
)

// Entry is a stored value together with its version tag. The version of an
// absent key is the empty string.
type Entry struct {
	Value   []byte
	Version string
}

// KVStore is the shared, eventually-consistent key-value store. It is the only
// shared mutable resource; callers bound every call with a context deadline.
type KVStore interface {
	// Get returns domain.ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) (Entry, error)
	// Put writes unconditionally (last writer wins). ttl <= 0 means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// CompareAndSwap writes value only if the key's current version equals
	// expected ("" = key must be absent). Returns domain.ErrVersionMismatch on
	// conflict, otherwise the new version.
	CompareAndSwap(ctx context.Context, key string, value []byte, expected string) (string, error)
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// List returns the keys that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}
