package hydrate

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// FetchCache memoizes storage fetch operations across requests. Entries are
// evicted least-recently-used beyond maxEntries and expire a fixed ttl after
// insertion regardless of access. The cache is read-through only: writes and
// deletes on the underlying documents never invalidate it, which is the
// accepted staleness window.
type FetchCache struct {
	entries *expirable.LRU[string, any]
	group   singleflight.Group
}

// NewFetchCache creates a cache bounded by maxEntries with a fixed ttl.
func NewFetchCache(maxEntries int, ttl time.Duration) *FetchCache {
	return &FetchCache{
		entries: expirable.NewLRU[string, any](maxEntries, nil, ttl),
	}
}

// cacheKey builds the memoization key for an operation from its exact
// argument tuple. Arguments are order-sensitive: a fetch for the same ids in
// a different order is a different key, preserving result ordering.
func cacheKey(op string, args ...string) string {
	return op + "\x1f" + strings.Join(args, "\x1f")
}

// Memoize returns the cached value for key or computes it via produce.
// Concurrent calls for the same key are collapsed into one producer run.
// Errors are returned to every waiter and never cached, so the next call
// recomputes.
func (c *FetchCache) Memoize(key string, produce func() (any, error)) (any, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent call may have populated the entry while this one
		// waited on the flight group.
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}

		v, err := produce()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Len returns the number of live entries, mainly for observability.
func (c *FetchCache) Len() int {
	return c.entries.Len()
}
