package nslru

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

var benchSizes = []int{100, 1_000, 10_000, 100_000}

// =============================================================================
// Cache Benchmarks
// =============================================================================

func BenchmarkCache_Get_Hit(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cache := MustNew[int, int](WithCapacity(size))
			for i := range size {
				cache.Set(i, i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				cache.Get(i % size)
			}
		})
	}
}

func BenchmarkCache_Get_Miss(b *testing.B) {
	cache := MustNew[int, int](WithCapacity(1_000))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cache.Get(i)
	}
}

func BenchmarkCache_Set_Existing(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cache := MustNew[int, int](WithCapacity(size))
			for i := range size {
				cache.Set(i, i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				cache.Set(i%size, i)
			}
		})
	}
}

func BenchmarkCache_Set_Evict(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cache := MustNew[int, int](WithCapacity(size))
			for i := range size {
				cache.Set(i, i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			// every set evicts the oldest entry
			for i := 0; i < b.N; i++ {
				cache.Set(size+i, i)
			}
		})
	}
}

func BenchmarkCache_Set_Unbounded(b *testing.B) {
	cache := MustNew[int, int]()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cache.Set(i, i)
	}
}

func BenchmarkCache_Set_WithTTL(b *testing.B) {
	cache := MustNew[int, int](WithCapacity(10_000), WithTTL(time.Minute))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cache.Set(i%20_000, i)
	}
}

func BenchmarkCache_Zipf(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cache := MustNew[int, int](WithCapacity(size))
			for i := range size {
				cache.Set(i, i)
			}

			// some keys are accessed much more than others
			rng := rand.New(rand.NewSource(42))
			zipf := rand.NewZipf(rng, 1.2, 1, uint64(size-1))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				key := int(zipf.Uint64())
				if i%5 == 0 {
					cache.Set(key, i)
				} else {
					cache.Get(key)
				}
			}
		})
	}
}

// =============================================================================
// Parallel Benchmarks (contention testing)
// =============================================================================

func BenchmarkCache_Parallel_Mixed(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cache := MustNew[int, int](WithCapacity(size))
			for i := range size {
				cache.Set(i, i)
			}

			b.ResetTimer()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					if i%5 == 0 {
						cache.Set(i%size, i)
					} else {
						cache.Get(i % size)
					}
					i++
				}
			})
		})
	}
}

func BenchmarkCache_Parallel_Peek(b *testing.B) {
	cache := MustNew[int, int](WithCapacity(1_000))
	for i := range 1_000 {
		cache.Set(i, i)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			cache.Peek(i % 1_000)
			i++
		}
	})
}

// =============================================================================
// Registry Benchmarks
// =============================================================================

func BenchmarkRegistry_GetOrCreate_Existing(b *testing.B) {
	reg := NewRegistry[int, int]()
	namespaces := make([]string, 64)
	for i := range namespaces {
		namespaces[i] = fmt.Sprintf("ns-%d", i)
		reg.MustGetOrCreate(namespaces[i], WithCapacity(50))
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = reg.GetOrCreate(namespaces[i%len(namespaces)])
	}
}

func BenchmarkRegistry_Parallel_Bind(b *testing.B) {
	reg := NewRegistry[string, float64]()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c, err := reg.Bind("VirtualList", fmt.Sprintf("page-%d", i%16), WithCapacity(50))
			if err != nil {
				b.Error(err)
				return
			}
			c.Set("scrollTop", float64(i))
			i++
		}
	})
}
