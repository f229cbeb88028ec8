package nslru

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_OnEvict(t *testing.T) {
	r := require.New(t)
	cache := MustNew[string, int](WithCapacity(3))

	evicted := make(map[string]int)
	cache.OnEvict(func(key string, value int) {
		evicted[key] = value
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	r.Empty(evicted)

	// "a" is the least recently used
	cache.Set("d", 4)
	r.Equal(map[string]int{"a": 1}, evicted)

	cache.Delete("b")
	r.Equal(map[string]int{"a": 1, "b": 2}, evicted)

	// updating "c" must not evict anything
	cache.Set("c", 30)
	r.Equal(map[string]int{"a": 1, "b": 2}, evicted)

	cache.Clear()
	r.Equal(map[string]int{"a": 1, "b": 2, "c": 30, "d": 4}, evicted)
}

func TestCache_OnEvictReplacement(t *testing.T) {
	r := require.New(t)
	cache := MustNew[string, int](WithCapacity(3))

	evicted1 := make(map[string]int)
	cache.OnEvict(func(key string, value int) {
		evicted1[key] = value
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)
	cache.Set("d", 4) // evicts "a"

	r.Equal(map[string]int{"a": 1}, evicted1)

	evicted2 := make(map[string]int)
	cache.OnEvict(func(key string, value int) {
		evicted2[key] = value
	})

	cache.Set("e", 5) // evicts "b"

	r.Equal(map[string]int{"a": 1}, evicted1)
	r.Equal(map[string]int{"b": 2}, evicted2)

	cache.OnEvict(nil)

	cache.Set("f", 6) // evicts "c"

	r.Equal(map[string]int{"a": 1}, evicted1)
	r.Equal(map[string]int{"b": 2}, evicted2)
}

func TestCache_OnEvictResize(t *testing.T) {
	r := require.New(t)
	cache := MustNew[string, int](WithCapacity(4))

	var evicted []string
	cache.OnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)
	cache.Set("d", 4)

	n, err := cache.Resize(1)
	r.NoError(err)
	r.Equal(3, n)
	r.Equal([]string{"a", "b", "c"}, evicted)
}

func TestCache_OnEvictExpired(t *testing.T) {
	r := require.New(t)
	clock := newMockTime()
	cache := MustNew[string, int](WithCapacity(3), WithTTL(time.Minute), WithClock(clock.Now))

	evicted := make(map[string]int)
	cache.OnEvict(func(key string, value int) {
		evicted[key] = value
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	r.Empty(evicted)

	cache.Set("d", 4)
	r.Equal(map[string]int{"a": 1}, evicted)

	cache.Delete("b")
	r.Equal(map[string]int{"a": 1, "b": 2}, evicted)

	clock.Add(time.Minute + time.Second)

	// expired entries linger until touched
	r.Equal(map[string]int{"a": 1, "b": 2}, evicted)

	// reading an expired entry removes it
	_, found := cache.Get("c")
	r.False(found)
	r.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, evicted)

	evicted = make(map[string]int)
	cache.Set("e", 5)
	cache.Set("f", 6)

	clock.Add(time.Minute + time.Second)

	removed := cache.RemoveExpired()
	r.Equal(3, removed) // d, e, f
	r.Equal(map[string]int{"d": 4, "e": 5, "f": 6}, evicted)
}
