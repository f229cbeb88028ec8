package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rselbach/nslru"
)

// Client is the subset of [redis.UniversalClient] a Mirror needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Client = (redis.UniversalClient)(nil)

// Marshaler serializes cache snapshots. Entries are ordered from least to
// most recently used.
type Marshaler[K comparable, V any] interface {
	Marshal(entries []nslru.Entry[K, V]) ([]byte, error)
	Unmarshal(data []byte) ([]nslru.Entry[K, V], error)
}

type jsonMarshaler[K comparable, V any] struct{}

func (jsonMarshaler[K, V]) Marshal(entries []nslru.Entry[K, V]) ([]byte, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[K, V]) Unmarshal(data []byte) ([]nslru.Entry[K, V], error) {
	var entries []nslru.Entry[K, V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return entries, nil
}

// Mirror saves and restores cache snapshots in Redis, one key per namespace.
type Mirror[K comparable, V any] struct {
	client    Client
	marshaler Marshaler[K, V]
	opts      *options
}

// New creates a Mirror on top of client, usually obtained from [Open].
// If m is nil, snapshots are stored as JSON.
func New[K comparable, V any](client Client, m Marshaler[K, V], opts ...Option) *Mirror[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[K, V]{}
	}

	return &Mirror[K, V]{
		client:    client,
		marshaler: m,
		opts:      o,
	}
}

// Save writes a snapshot of the live entries in c, replacing any previous
// snapshot of namespace. Reading the entries does not change their recency.
func (m *Mirror[K, V]) Save(ctx context.Context, namespace string, c *nslru.Cache[K, V]) error {
	entries := c.Entries()
	slices.Reverse(entries)

	data, err := m.marshaler.Marshal(entries)
	if err != nil {
		return err
	}

	if err := m.client.Set(ctx, m.key(namespace), data, max(m.opts.ttl, 0)).Err(); err != nil {
		return fmt.Errorf("mirror: save %q: %w", namespace, err)
	}

	m.opts.logger.DebugContext(ctx, "snapshot saved",
		slog.String("namespace", namespace),
		slog.Int("entries", len(entries)),
	)
	return nil
}

// Restore replays the snapshot of namespace into c, oldest entry first, and
// returns the number of entries written. Entries already in c are kept
// unless the snapshot overwrites them.
// It returns [ErrNotFound] if no snapshot exists.
func (m *Mirror[K, V]) Restore(ctx context.Context, namespace string, c *nslru.Cache[K, V]) (int, error) {
	data, err := m.client.Get(ctx, m.key(namespace)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("mirror: restore %q: %w", namespace, err)
	}

	entries, err := m.marshaler.Unmarshal(data)
	if err != nil {
		return 0, err
	}

	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}

	m.opts.logger.DebugContext(ctx, "snapshot restored",
		slog.String("namespace", namespace),
		slog.Int("entries", len(entries)),
	)
	return len(entries), nil
}

// Delete removes the snapshot of namespace. Deleting a missing snapshot is
// not an error.
func (m *Mirror[K, V]) Delete(ctx context.Context, namespace string) error {
	return m.client.Del(ctx, m.key(namespace)).Err()
}

func (m *Mirror[K, V]) key(namespace string) string {
	if m.opts.prefix == "" {
		return namespace
	}
	return m.opts.prefix + ":" + namespace
}

// SaveAll saves every namespace registered in reg. It keeps going after a
// failure and returns all errors joined.
func SaveAll[K comparable, V any](ctx context.Context, m *Mirror[K, V], reg *nslru.Registry[K, V]) error {
	var errs []error
	for _, ns := range reg.Namespaces() {
		c, ok := reg.Get(ns)
		if !ok {
			// removed since we listed it
			continue
		}
		if err := m.Save(ctx, ns, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RestoreAll restores each of namespaces into reg, creating the namespace
// with opts if needed. Namespaces without a snapshot are skipped. It returns
// the total number of entries written and all errors joined.
func RestoreAll[K comparable, V any](ctx context.Context, m *Mirror[K, V], reg *nslru.Registry[K, V], namespaces []string, opts ...nslru.Option) (int, error) {
	var (
		total int
		errs  []error
	)
	for _, ns := range namespaces {
		c, err := reg.GetOrCreate(ns, opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		n, err := m.Restore(ctx, ns, c)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
	}
	return total, errors.Join(errs...)
}
