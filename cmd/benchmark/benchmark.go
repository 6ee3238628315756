package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/kibblescan/sitecache"
)

// ================= BENCHMARK =================

func main() {
	var (
		preloadKeys = flag.Int("keys", 400, "distinct keys per cache")
		goroutines  = flag.Int("goroutines", 200, "concurrent workers")
		opsPerG     = flag.Int("ops", 5000, "operations per worker")
		computeCost = flag.Duration("compute", 50*time.Microsecond, "simulated cost of a miss")
	)
	flag.Parse()

	ctx := context.Background()
	registry := cache.NewDefaultRegistry()
	roles := registry.Names()

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	for _, name := range roles {
		cfg, _ := registry.Config(name)
		fmt.Printf("%-13s: max_age=%v max_size=%d policy=%s\n", name, cfg.MaxAge, cfg.MaxSize, cfg.Policy)
	}
	fmt.Println("Keys/Cache   :", *preloadKeys)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *opsPerG)
	fmt.Println("Compute cost :", *computeCost)
	fmt.Println("---------------------------------")

	// ---------------- Preload ----------------
	fmt.Println("Preloading caches...")
	for _, name := range roles {
		for i := 0; i < *preloadKeys; i++ {
			_ = registry.Set(name, fmt.Sprintf("key-%d", i), i)
		}
	}

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	var computes atomic.Int64
	compute := func(i int) func(context.Context) (int, error) {
		return func(context.Context) (int, error) {
			computes.Add(1)
			time.Sleep(*computeCost)
			return i, nil
		}
	}

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(*goroutines)
	for g := 0; g < *goroutines; g++ {
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			for j := 0; j < *opsPerG; j++ {
				name := roles[rng.IntN(len(roles))]
				i := rng.IntN(*preloadKeys)
				if _, err := cache.CachedCall(ctx, registry, name, fmt.Sprintf("key-%d", i), compute(i)); err != nil {
					panic(err)
				}
			}
		}(uint64(g))
	}
	wg.Wait()

	duration := time.Since(start)
	totalOps := *goroutines * *opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Computes (misses): %d\n", computes.Load())
	fmt.Printf("Hit Ratio        : %.2f%%\n", 100*(1-float64(computes.Load())/float64(totalOps)))
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	for name, st := range registry.StatsAll() {
		fmt.Printf("%-17s: size=%d avg_age=%v\n", name, st.Size, st.AverageAge.Round(time.Millisecond))
	}
	fmt.Println("=========================================")
}
