// Package mirror copies nslru caches to Redis and back.
//
// A cache lives only as long as the process. Mirroring a namespace to Redis
// lets a restarted process, or another instance, pick up where it left off:
//
//	client, err := mirror.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	m := mirror.New[string, float64](client, nil, mirror.WithPrefix("scroll"))
//
//	_ = m.Save(ctx, "orders", cache)      // on shutdown
//	n, err := m.Restore(ctx, "orders", cache) // on startup
//
// A snapshot holds the live entries in recency order, so restoring it into an
// empty cache reproduces the same eviction order. Restoring into a smaller
// cache keeps the most recently used entries.
//
// Snapshots are JSON by default. Pass a custom [Marshaler] to [New] to use a
// different format. Keys of interface type come back as whatever the format
// decodes them to (JSON numbers become float64).
//
// # Registries
//
// [SaveAll] and [RestoreAll] handle every namespace of an [nslru.Registry]:
//
//	err := mirror.SaveAll(ctx, m, reg)
//	n, err := mirror.RestoreAll(ctx, m, reg, []string{"orders", "users"})
package mirror
