package engine

import (
	"time"

	"github.com/kibblescan/sitecache/expiration"
	"github.com/kibblescan/sitecache/types"
)

/*
CacheEngine is the "brain" of a named cache.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When data is expired
- How bookkeeping is updated on reads/writes
- What time it is
- How events are recorded in metrics

It does NOT:
- Store data
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Expiration controls when a cache entry should be considered "too old".
	// Named caches always have one: every role carries a MaxAge.
	Expiration expiration.Strategy

	// Metrics is how we keep track of what the cache is doing.
	// Hits, misses, evictions, expirations.
	Metrics types.Metrics

	// Now is the clock. Tests swap it for a fake one.
	Now func() time.Time
}

/*
NewCacheEngine creates a CacheEngine.
exp is required. Nil metrics and a nil clock are replaced with working defaults.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	metrics types.Metrics,
	now func() time.Time,
) *CacheEngine {
	if exp == nil {
		panic("engine: nil expiration strategy")
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if now == nil {
		now = time.Now
	}

	return &CacheEngine{
		Expiration: exp,
		Metrics:    metrics,
		Now:        now,
	}
}

// IsExpired checks whether a cache entry is expired at the given instant.
func (e *CacheEngine) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.Expiration.IsExpired(ent, now)
}

// OnRead is called every time the cache successfully returns a value.
func (e *CacheEngine) OnRead(ent *types.CacheEntry, now time.Time) {
	e.Expiration.OnAccess(ent, now)
}

// OnWrite is called whenever something is written to the cache.
func (e *CacheEngine) OnWrite(ent *types.CacheEntry, now time.Time) {
	e.Expiration.OnWrite(ent, now)
}
