package nslru

import "time"

// Unbounded is reported by [Cache.Capacity] for stores created without
// [WithCapacity]. Such stores never evict on size.
const Unbounded = -1

// Option configures a [Cache].
type Option func(*options)

type options struct {
	now      func() time.Time
	capacity int
	ttl      time.Duration
	bounded  bool
}

func defaultOptions() *options {
	return &options{
		now:      time.Now,
		capacity: Unbounded,
	}
}

// WithCapacity bounds the store to n entries. When a new key would exceed the
// bound, the least recently used entry is evicted.
//
// A capacity of zero admits nothing: every new entry is evicted as soon as it
// is written. Negative values make [New] fail with [ErrInvalidCapacity].
// Default: unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
		o.bounded = true
	}
}

// WithTTL sets how long an entry lives after it was last written.
// Reads do not extend it. Zero disables expiration.
// Default: 0 (entries never expire).
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithClock replaces the time source used for expiration.
// Passing nil keeps time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func (o *options) validate() error {
	if o.bounded && o.capacity < 0 {
		return ErrInvalidCapacity
	}
	if o.ttl < 0 {
		return ErrInvalidTTL
	}
	return nil
}
