// Package nslru provides generic, thread-safe LRU caches grouped by namespace.
//
// Two types are provided:
//
//   - [Cache]: an LRU store, bounded or unbounded, with optional per-entry TTL
//   - [Registry]: a set of caches keyed by namespace, created on first use
//
// # Basic Usage
//
// Create a cache and store values:
//
//	cache := nslru.MustNew[string, int](nslru.WithCapacity(100))
//	cache.Set("key", 42)
//	value, found := cache.Get("key")
//
// Without [WithCapacity] the cache never evicts on size; bounding it is the
// caller's responsibility.
//
// # Namespaces
//
// A [Registry] hands out one cache per namespace. The first call decides the
// options; later calls return the same cache and ignore theirs:
//
//	reg := nslru.NewRegistry[string, float64]()
//	scroll := reg.MustGetOrCreate("orders-list", nslru.WithCapacity(50))
//	scroll.Set("row:42", 1280)
//
//	same, _ := reg.Get("orders-list") // same == scroll
//	reg.Clear("orders-list")           // empties it, keeps the registration
//
// Use [Registry.Bind] to tie a cache to a component identity, and [Default]
// for a process-wide registry.
//
// # Expiration
//
// With [WithTTL] each entry expires a fixed duration after it was written.
// Reads do not extend it. Expired entries are removed lazily on access, or
// eagerly with [Cache.RemoveExpired].
//
// # Eviction Callbacks
//
// Register a callback to be notified when entries leave a cache:
//
//	cache.OnEvict(func(key string, value int) {
//	    fmt.Printf("evicted: %s=%d\n", key, value)
//	})
//
// Callbacks are invoked for capacity evictions, [Cache.Delete], [Cache.Clear],
// [Cache.Resize] and expired entries being removed. For [Cache.Clear] they
// are only invoked for entries that had not yet expired.
package nslru
