// Package cache defines the narrow shared-cache interface the lifecycle
// manager consults: a best-effort invalidation hint, not a
// correctness-critical store.
package cache

import "context"

// Cache is the single operation the core needs from a shared cache: key
// deletion, used by the lifecycle manager to force replicas to rebuild
// an adapter's cached state on (re)initialization.
type Cache interface {
	Rawdel(ctx context.Context, key string) error
}
