package nslru

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// RegistryOption configures a [Registry].
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger   *slog.Logger
	defaults []Option
}

func defaultRegistryOptions() *registryOptions {
	return &registryOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used to report namespace lifecycle events.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaults sets store options applied to every namespace the registry
// creates. Options passed to [Registry.GetOrCreate] are applied after them.
func WithDefaults(opts ...Option) RegistryOption {
	return func(o *registryOptions) {
		o.defaults = append(o.defaults, opts...)
	}
}

// Registry maps namespaces to independent caches. Each namespace gets exactly
// one [Cache], created on first use and kept until [Registry.Remove].
// A Registry is safe for concurrent use.
type Registry[K comparable, V any] struct {
	stores   map[string]*Cache[K, V]
	logger   *slog.Logger
	defaults []Option
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable, V any](opts ...RegistryOption) *Registry[K, V] {
	o := defaultRegistryOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Registry[K, V]{
		stores:   make(map[string]*Cache[K, V]),
		logger:   o.logger,
		defaults: o.defaults,
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry[any, any] {
	return NewRegistry[any, any]()
})

// Default returns the process-wide registry. It is created on first call and
// lives until the process exits.
func Default() *Registry[any, any] {
	return defaultRegistry()
}

// GetOrCreate returns the cache registered for namespace, creating it with
// opts if it does not exist yet.
//
// Options only take effect when the cache is created. Calls for an existing
// namespace ignore them, so the first caller decides capacity and TTL.
// If the options are invalid nothing is registered and the error is returned.
func (r *Registry[K, V]) GetOrCreate(namespace string, opts ...Option) (*Cache[K, V], error) {
	r.mu.RLock()
	c, ok := r.stores[namespace]
	r.mu.RUnlock()
	if ok {
		r.ignoredOptions(namespace, opts)
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// lost the race to another creator
	if c, ok := r.stores[namespace]; ok {
		r.ignoredOptions(namespace, opts)
		return c, nil
	}

	c, err := New[K, V](append(slices.Clone(r.defaults), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("nslru: namespace %q: %w", namespace, err)
	}
	r.stores[namespace] = c

	r.logger.Debug("namespace created",
		slog.String("namespace", namespace),
		slog.Int("capacity", c.Capacity()),
		slog.Duration("ttl", c.TTL()),
	)
	return c, nil
}

func (r *Registry[K, V]) ignoredOptions(namespace string, opts []Option) {
	if len(opts) == 0 {
		return
	}
	r.logger.Debug("options ignored for existing namespace",
		slog.String("namespace", namespace),
		slog.Int("options", len(opts)),
	)
}

// MustGetOrCreate is like [Registry.GetOrCreate] but panics on invalid options.
func (r *Registry[K, V]) MustGetOrCreate(namespace string, opts ...Option) *Cache[K, V] {
	c, err := r.GetOrCreate(namespace, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the cache registered for namespace without creating one.
func (r *Registry[K, V]) Get(namespace string) (*Cache[K, V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.stores[namespace]
	return c, ok
}

// Clear empties the cache registered for namespace. The registration is
// kept, so handles obtained earlier keep working against the same cache.
// It reports whether the namespace was registered.
func (r *Registry[K, V]) Clear(namespace string) bool {
	c, ok := r.Get(namespace)
	if !ok {
		return false
	}

	c.Clear()
	r.logger.Debug("namespace cleared", slog.String("namespace", namespace))
	return true
}

// ClearAll empties every registered cache.
func (r *Registry[K, V]) ClearAll() {
	r.mu.RLock()
	stores := make([]*Cache[K, V], 0, len(r.stores))
	for _, c := range r.stores {
		stores = append(stores, c)
	}
	r.mu.RUnlock()

	for _, c := range stores {
		c.Clear()
	}
	r.logger.Debug("all namespaces cleared", slog.Int("namespaces", len(stores)))
}

// Remove clears the cache registered for namespace and drops the
// registration. A later [Registry.GetOrCreate] builds a new cache.
// It reports whether the namespace was registered.
func (r *Registry[K, V]) Remove(namespace string) bool {
	r.mu.Lock()
	c, ok := r.stores[namespace]
	delete(r.stores, namespace)
	r.mu.Unlock()

	if !ok {
		return false
	}

	c.Clear()
	r.logger.Debug("namespace removed", slog.String("namespace", namespace))
	return true
}

// Namespaces returns the registered namespaces in sorted order.
func (r *Registry[K, V]) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered namespaces.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.stores)
}

// Bind returns the cache owned by one logical component instance. Repeated
// calls with the same componentID and namespace return the same cache, so a
// widget that is rebuilt many times keeps its state.
//
// componentID must not contain [ScopeSeparator]; otherwise
// [ErrInvalidComponentID] is returned.
func (r *Registry[K, V]) Bind(componentID, namespace string, opts ...Option) (*Cache[K, V], error) {
	if strings.Contains(componentID, ScopeSeparator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidComponentID, componentID)
	}
	return r.GetOrCreate(ScopeKey(componentID, namespace), opts...)
}

// ScopeSeparator joins a component ID and a namespace in [ScopeKey].
const ScopeSeparator = ":"

// ScopeKey builds the namespace [Registry.Bind] uses for a component.
// The key is unambiguous as long as componentID has no [ScopeSeparator].
func ScopeKey(componentID, namespace string) string {
	if namespace == "" {
		return componentID
	}
	return componentID + ScopeSeparator + namespace
}
