package namedcache

import (
	"sync"
	"time"

	"github.com/kibblescan/sitecache/engine"
	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/expiration"
	"github.com/kibblescan/sitecache/types"
)

/*
NamedCache is a single bounded, time-expiring key/value store.

- Expiration is lazy: reads discover and drop expired entries, Cleanup sweeps.
- Capacity is counted in entries and enforced after every write.
- None of the operations fail for ordinary usage. Missing keys, empty caches
  and full caches are normal states.
*/
type NamedCache struct {
	name string

	mu      sync.Mutex
	cfg     Config
	policy  eviction.Policy
	engine  *engine.CacheEngine
	store   *entryStore
	seq     uint64
	tick    uint64
	metrics types.Metrics
	now     func() time.Time
}

// Stats is a point-in-time view of the live (non-expired) entries.
type Stats struct {
	Size       int           `json:"size"`
	AverageAge time.Duration `json:"average_age"`
	Weight     int           `json:"weight"`
}

// Option customizes a NamedCache.
type Option func(*NamedCache)

// WithMetrics routes cache events to m.
func WithMetrics(m types.Metrics) Option {
	return func(c *NamedCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *NamedCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache. An invalid cfg is rejected with a
// *types.ConfigurationError.
func New(name string, cfg Config, opts ...Option) (*NamedCache, error) {
	c := &NamedCache{
		name:    name,
		store:   newEntryStore(),
		metrics: types.NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.apply(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the name the cache was created with.
func (c *NamedCache) Name() string {
	return c.name
}

// Config returns the active configuration.
func (c *NamedCache) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

/*
Reconfigure swaps the configuration in place.

Existing entries are NOT re-evicted here: a smaller MaxSize takes effect on
the next Set or Cleanup. A shorter MaxAge applies to the very next read since
expiration is always evaluated lazily.
*/
func (c *NamedCache) Reconfigure(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(cfg)
}

// apply must be called with the lock held (or before the cache is shared).
func (c *NamedCache) apply(cfg Config) error {
	if err := cfg.Validate(c.name); err != nil {
		return err
	}
	policy, err := eviction.NewEvictionPolicy(cfg.Policy)
	if err != nil {
		return types.InvalidConfigError(c.name, "policy", err.Error())
	}

	c.cfg = cfg
	c.policy = policy
	c.engine = engine.NewCacheEngine(&expiration.MaxAge{TTL: cfg.MaxAge}, c.metrics, c.now)
	return nil
}

// Set stores value under key with a weight of 1.
func (c *NamedCache) Set(key string, value any) {
	c.SetWithSize(key, value, 1)
}

/*
SetWithSize stores value under key with a caller-supplied weight.

BEHAVIOR:
---------
1. An existing key is replaced by a fresh entry (new timestamps, zero reads)
2. Expired entries are purged
3. If the live count exceeds MaxSize, the eviction policy picks the survivors

Non-positive sizeHint values are stored as 1.
*/
func (c *NamedCache) SetWithSize(key string, value any, sizeHint int) {
	if sizeHint <= 0 {
		sizeHint = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.engine.Now()
	c.seq++
	ent := &types.CacheEntry{
		Key:      key,
		Value:    value,
		SizeHint: sizeHint,
		Seq:      c.seq,
		Tick:     c.nextTick(),
	}
	c.engine.OnWrite(ent, now)
	c.store.Put(ent)

	c.purgeExpiredLocked(now)
	c.enforceCapacityLocked()
}

/*
Get returns the value stored under key.

A missing key or an expired entry reports false. An expired entry is removed
on the spot. A hit bumps AccessCount and LastAccessedAt.
*/
func (c *NamedCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.engine.Now()
	ent, ok := c.liveLocked(key, now)
	if !ok {
		c.engine.Metrics.Miss(c.name)
		return nil, false
	}

	c.engine.OnRead(ent, now)
	ent.Tick = c.nextTick()
	c.engine.Metrics.Hit(c.name)
	return ent.Value, true
}

// Has reports whether key holds a live entry. It never touches access
// bookkeeping, though an expired entry it observes is removed.
func (c *NamedCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.liveLocked(key, c.engine.Now())
	return ok
}

// Remove deletes key and reports whether it was present. Removing a missing
// key is a no-op.
func (c *NamedCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(key)
}

// Clear empties the cache unconditionally.
func (c *NamedCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
}

// Cleanup purges expired entries, then re-applies the eviction policy if the
// cache is still over MaxSize. Safe to call at any time.
func (c *NamedCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked(c.engine.Now())
	c.enforceCapacityLocked()
}

// Len returns the number of stored entries, including expired ones not yet
// purged. Use Stats for the live count.
func (c *NamedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Size()
}

// Stats computes live size, mean age and total weight. Expired entries are
// skipped but left in place.
func (c *NamedCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.engine.Now()
	var (
		st    Stats
		total time.Duration
	)
	for _, ent := range c.store.Snapshot() {
		if c.engine.IsExpired(ent, now) {
			continue
		}
		st.Size++
		st.Weight += ent.SizeHint
		total += ent.Age(now)
	}
	if st.Size > 0 {
		st.AverageAge = total / time.Duration(st.Size)
	}
	return st
}

// liveLocked looks key up and drops it if expired.
func (c *NamedCache) liveLocked(key string, now time.Time) (*types.CacheEntry, bool) {
	ent, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if c.engine.IsExpired(ent, now) {
		c.store.Delete(key)
		c.engine.Metrics.Expire(c.name)
		return nil, false
	}
	return ent, true
}

func (c *NamedCache) purgeExpiredLocked(now time.Time) {
	for _, ent := range c.store.Snapshot() {
		if c.engine.IsExpired(ent, now) {
			c.store.Delete(ent.Key)
			c.engine.Metrics.Expire(c.name)
		}
	}
}

func (c *NamedCache) enforceCapacityLocked() {
	if c.store.Size() <= c.cfg.MaxSize {
		return
	}

	entries := c.store.Snapshot()
	survivors := c.policy.SelectSurvivors(entries, c.cfg.MaxSize)

	keep := make(map[string]struct{}, len(survivors))
	for _, ent := range survivors {
		keep[ent.Key] = struct{}{}
	}
	for _, ent := range entries {
		if _, ok := keep[ent.Key]; !ok {
			c.store.Delete(ent.Key)
			c.engine.Metrics.Eviction(c.name)
		}
	}
}

func (c *NamedCache) nextTick() uint64 {
	c.tick++
	return c.tick
}
