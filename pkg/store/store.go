package store

import "context"

// Store is the persistence boundary for scanned orders. The engine assumes
// nothing beyond "a Set completes before the next Get observes it"; there is
// no retry, a failed operation aborts the scan that issued it.
type Store interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Clear drops every key. This is the only bulk-reset operation; there
	// is no per-key delete.
	Clear(ctx context.Context) error
	Close() error
}
