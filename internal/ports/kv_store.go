package ports

import "context"

// KVStore is the durable backing store behind the device cache.
// Implementations must be safe for concurrent use.
type KVStore interface {
	// Get returns the raw value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
