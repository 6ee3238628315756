package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/namedcache"
)

func newBenchmarkRegistry(b *testing.B, policy eviction.PolicyType) *cache.Registry {
	r := cache.NewRegistry()
	if err := r.RegisterConfig("bench", namedcache.Config{
		MaxAge:  10 * time.Second,
		MaxSize: 1000,
		Policy:  policy,
	}); err != nil {
		b.Fatal(err)
	}
	return r
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkRegistryGetHit(b *testing.B) {
	r := newBenchmarkRegistry(b, eviction.LRU)
	_ = r.Set("bench", "key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = r.Get("bench", "key")
	}
}

func BenchmarkRegistryGetMiss(b *testing.B) {
	r := newBenchmarkRegistry(b, eviction.LRU)
	_ = r.Set("bench", "other", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = r.Get("bench", "missing")
	}
}

// Writes past capacity exercise the eviction path on every call.
func BenchmarkRegistrySetEvicting(b *testing.B) {
	for _, policy := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO} {
		b.Run(string(policy), func(b *testing.B) {
			r := newBenchmarkRegistry(b, policy)
			for i := 0; i < 1000; i++ {
				_ = r.Set("bench", fmt.Sprintf("seed-%d", i), i)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.Set("bench", fmt.Sprintf("key-%d", i), i)
			}
		})
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCachedCallParallel(b *testing.B) {
	r := newBenchmarkRegistry(b, eviction.LRU)
	ctx := context.Background()
	compute := func(context.Context) (int, error) { return 42, nil }

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = cache.CachedCall(ctx, r, "bench", fmt.Sprintf("k%d", i%500), compute)
			i++
		}
	})
}
