package nslru

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// OnEvictFunc is a function that is called when an entry leaves the cache.
type OnEvictFunc[K comparable, V any] func(key K, value V)

// Entry is a key/value pair reported by [Cache.Entries].
type Entry[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Cache is a thread-safe LRU store. It is bounded when created with
// [WithCapacity] and unbounded otherwise.
// A Cache must be created with [New] or [MustNew]; the zero value is not ready for use.
type Cache[K comparable, V any] struct {
	items    map[K]*entry[K, V]
	head     *entry[K, V] // most recently used
	tail     *entry[K, V] // least recently used
	now      func() time.Time
	onEvict  OnEvictFunc[K, V]
	sfGroup  singleflight.Group
	capacity int
	ttl      time.Duration
	mu       sync.RWMutex
}

// entry is an intrusive doubly-linked list node.
type entry[K comparable, V any] struct {
	key    K
	val    V
	expiry time.Time // zero value = never expires
	prev   *entry[K, V]
	next   *entry[K, V]
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expiry.IsZero() && now.After(e.expiry)
}

// New creates a new cache configured by opts.
// It returns [ErrInvalidCapacity] or [ErrInvalidTTL] for negative settings.
func New[K comparable, V any](opts ...Option) (*Cache[K, V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	capacity, hint := Unbounded, 0
	if o.bounded {
		capacity, hint = o.capacity, o.capacity
	}

	return &Cache[K, V]{
		items:    make(map[K]*entry[K, V], hint),
		now:      o.now,
		capacity: capacity,
		ttl:      o.ttl,
	}, nil
}

// MustNew is like [New] but panics if the options are invalid.
func MustNew[K comparable, V any](opts ...Option) *Cache[K, V] {
	cache, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return cache
}

// Get retrieves a value from the cache by key.
// It returns the value and a boolean indicating whether the key was found.
// A hit marks the entry as most recently used. Expired entries are removed.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()

	var zero V

	e, found := c.items[key]
	if !found {
		c.mu.Unlock()
		return zero, false
	}

	if e.expired(c.now()) {
		c.unlink(e)
		onEvict := c.onEvict
		c.mu.Unlock()

		if onEvict != nil {
			onEvict(e.key, e.val)
		}
		return zero, false
	}

	c.moveToFront(e)
	val := e.val
	c.mu.Unlock()

	return val, true
}

// Peek retrieves a value from the cache by key without updating its position
// in the LRU list. Expired entries are reported as missing but left in place.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V

	e, found := c.items[key]
	if !found || e.expired(c.now()) {
		return zero, false
	}

	return e.val, true
}

// GetOrSet retrieves a value from the cache by key, or computes and sets it if not present.
// The compute function is only called if the key is not present in the cache.
// Note: if multiple goroutines call GetOrSet concurrently for the same missing key,
// compute may be called multiple times but only one result will be cached.
func (c *Cache[K, V]) GetOrSet(key K, compute func() (V, error)) (V, error) {
	if val, found := c.Get(key); found {
		return val, nil
	}

	// compute outside the lock so compute may call back into the cache
	val, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	return c.storeComputed(key, val), nil
}

// GetOrSetSingleflight is like [Cache.GetOrSet], but concurrent callers missing
// the same key share a single compute call and all receive its result.
//
// Deduplication only covers in-flight calls; once a value is cached,
// subsequent calls return it without going through singleflight.
func (c *Cache[K, V]) GetOrSetSingleflight(key K, compute func() (V, error)) (V, error) {
	if val, found := c.Get(key); found {
		return val, nil
	}

	// type-qualified so that 1 and "1" in a Cache[any, V] do not share a call
	sfKey := fmt.Sprintf("%T\x00%#v", key, key)
	result, err, _ := c.sfGroup.Do(sfKey, func() (any, error) {
		// another goroutine may have cached it just before we got here
		if val, found := c.Get(key); found {
			return Entry[K, V]{Key: key, Value: val}, nil
		}

		val, err := compute()
		if err != nil {
			return nil, err
		}
		return Entry[K, V]{Key: key, Value: c.storeComputed(key, val)}, nil
	})

	if err != nil {
		var zero V
		return zero, err
	}

	shared := result.(Entry[K, V])
	if shared.Key != key {
		// distinct keys formatted alike; never hand out another key's value
		return c.GetOrSet(key, compute)
	}
	return shared.Value, nil
}

// storeComputed caches val unless a live value appeared while it was being
// computed, in which case the existing value wins and is returned.
func (c *Cache[K, V]) storeComputed(key K, val V) V {
	c.mu.Lock()

	var stale *entry[K, V]
	if e, found := c.items[key]; found {
		if !e.expired(c.now()) {
			c.moveToFront(e)
			existing := e.val
			c.mu.Unlock()
			return existing
		}
		stale = e
		c.unlink(e)
	}

	evicted, hasEvicted := c.setLocked(key, val)
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		if stale != nil {
			onEvict(stale.key, stale.val)
		}
		if hasEvicted {
			onEvict(evicted.Key, evicted.Value)
		}
	}
	return val
}

// Set adds or updates an item in the cache and marks it as most recently used.
// Updating an existing key never evicts. Adding a new key to a full cache
// evicts the least recently used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	evicted, hasEvicted := c.setLocked(key, value)
	onEvict := c.onEvict
	c.mu.Unlock()

	if hasEvicted && onEvict != nil {
		onEvict(evicted.Key, evicted.Value)
	}
}

// setLocked adds or updates an item. The caller must hold the write lock.
// Returns the evicted entry, if any.
func (c *Cache[K, V]) setLocked(key K, value V) (evicted Entry[K, V], ok bool) {
	if e, found := c.items[key]; found {
		c.moveToFront(e)
		e.val = value
		e.expiry = c.expiryFromNow()
		return
	}

	e := &entry[K, V]{
		key:    key,
		val:    value,
		expiry: c.expiryFromNow(),
	}
	c.pushFront(e)
	c.items[key] = e

	// with capacity 0 the tail is the entry we just added
	if c.capacity != Unbounded && len(c.items) > c.capacity {
		oldest := c.tail
		evicted = Entry[K, V]{Key: oldest.key, Value: oldest.val}
		ok = true
		c.unlink(oldest)
	}
	return
}

func (c *Cache[K, V]) expiryFromNow() time.Time {
	if c.ttl == 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

// moveToFront moves an entry to the front of the list.
func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if c.head == e {
		return
	}
	c.remove(e)
	c.pushFront(e)
}

// pushFront adds an entry to the front of the list.
func (c *Cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// remove removes an entry from the list.
func (c *Cache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// unlink removes an entry from both the index and the list.
func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	delete(c.items, e.key)
	c.remove(e)
}

// Delete removes an item from the cache by key.
// It reports whether a live entry was found and removed.
// The relative order of the remaining entries is unchanged.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	e, found := c.items[key]
	if !found {
		c.mu.Unlock()
		return false
	}

	live := !e.expired(c.now())
	onEvict := c.onEvict

	c.unlink(e)
	c.mu.Unlock()

	if onEvict != nil {
		onEvict(e.key, e.val)
	}
	return live
}

// Len returns the number of live entries in the cache.
// Expired entries are excluded from the count but not removed.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ttl == 0 {
		return len(c.items)
	}

	count := 0
	now := c.now()
	for _, e := range c.items {
		if !e.expired(now) {
			count++
		}
	}
	return count
}

// Clear removes all items from the cache. Capacity, TTL and the eviction
// callback are kept, so the same Cache keeps working afterwards.
//
// If an eviction callback is set, it is called for every entry that had not
// yet expired.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	onEvict := c.onEvict

	var evicted []Entry[K, V]
	if onEvict != nil {
		evicted = c.entriesLocked()
	}

	hint := 0
	if c.capacity != Unbounded {
		hint = c.capacity
	}
	c.items = make(map[K]*entry[K, V], hint)
	c.head = nil
	c.tail = nil
	c.mu.Unlock()

	for _, e := range evicted {
		onEvict(e.Key, e.Value)
	}
}

// Contains checks if a live key exists in the cache without updating its
// position in the LRU list.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.items[key]
	return found && !e.expired(c.now())
}

// Keys returns a slice of all live keys in the cache.
// The order is from most recently used to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	keys := make([]K, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		if !e.expired(now) {
			keys = append(keys, e.key)
		}
	}

	return keys
}

// Entries returns a snapshot of all live entries, from most recently used to
// least recently used. Reading the snapshot does not affect recency.
func (c *Cache[K, V]) Entries() []Entry[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entriesLocked()
}

func (c *Cache[K, V]) entriesLocked() []Entry[K, V] {
	now := c.now()
	entries := make([]Entry[K, V], 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		if !e.expired(now) {
			entries = append(entries, Entry[K, V]{Key: e.key, Value: e.val})
		}
	}
	return entries
}

// Capacity returns the maximum number of entries, or [Unbounded].
func (c *Cache[K, V]) Capacity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.capacity
}

// TTL returns the time-to-live applied to written entries. Zero means
// entries never expire.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Resize changes the capacity of the cache, evicting least recently used
// entries until it fits. Passing [Unbounded] lifts the bound.
// It returns the number of evicted entries.
func (c *Cache[K, V]) Resize(capacity int) (int, error) {
	if capacity < 0 && capacity != Unbounded {
		return 0, ErrInvalidCapacity
	}

	c.mu.Lock()
	c.capacity = capacity

	var evicted []Entry[K, V]
	if capacity != Unbounded {
		for len(c.items) > capacity {
			oldest := c.tail
			evicted = append(evicted, Entry[K, V]{Key: oldest.key, Value: oldest.val})
			c.unlink(oldest)
		}
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		for _, e := range evicted {
			onEvict(e.Key, e.Value)
		}
	}
	return len(evicted), nil
}

// RemoveExpired explicitly removes all expired items from the cache.
// Returns the number of items removed.
// This method will call the eviction callback for each expired item if one is set.
func (c *Cache[K, V]) RemoveExpired() int {
	if c.ttl == 0 {
		return 0
	}

	c.mu.Lock()

	now := c.now()
	var expired []Entry[K, V]
	for e := c.head; e != nil; {
		next := e.next
		if e.expired(now) {
			expired = append(expired, Entry[K, V]{Key: e.key, Value: e.val})
			c.unlink(e)
		}
		e = next
	}

	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		for _, e := range expired {
			onEvict(e.Key, e.Value)
		}
	}

	return len(expired)
}

// OnEvict sets a callback function that will be called when an entry leaves
// the cache: capacity eviction, [Cache.Delete], [Cache.Clear], [Cache.Resize]
// and removal of expired entries. Passing nil removes the callback.
//
// The callback is invoked after the cache's internal lock is released and may be called
// concurrently from multiple goroutines. It must be safe for concurrent use.
func (c *Cache[K, V]) OnEvict(f OnEvictFunc[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onEvict = f
}
