package store

import "context"

// KV is the narrow key-value capability set the timeline strategies and the
// graph loader depend on. Each call maps to a single store command and is
// atomic on its own; no multi-command transactions are offered.
type KV interface {
	// Get returns the value for key. The second result is false when the
	// key is absent, which is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Incr atomically increments the integer stored at key and returns the
	// new value. An absent key counts as 0 before the increment.
	Incr(ctx context.Context, key string) (int64, error)

	// LPush prepends value to the list stored at key.
	LPush(ctx context.Context, key, value string) error

	// LRange returns the list elements between start and stop inclusive.
	// Negative indices count from the end; stop = -1 means "to the end".
	// An absent key yields an empty result.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// SAdd adds member to the set stored at key.
	SAdd(ctx context.Context, key, member string) error

	// SMembers returns all members of the set stored at key.
	SMembers(ctx context.Context, key string) ([]string, error)

	// FlushAll deletes every key. Destructive; used only by the loader.
	FlushAll(ctx context.Context) error

	Close() error
}
