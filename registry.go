package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kibblescan/sitecache/api"
	"github.com/kibblescan/sitecache/namedcache"
	"github.com/kibblescan/sitecache/types"
)

var _ api.Cache = (*Registry)(nil)

/*
Registry is the main cache implementation.
It multiplexes independently configured named caches under string names and
connects them to:
- per-name configuration
- metrics
- the clock
- in-flight load de-duplication for CachedCall

Named caches are created lazily on the first write to a registered name.
Nothing is created for a name without a configuration.
*/
type Registry struct {
	mu sync.RWMutex

	// configs holds the registered configuration for every known name.
	configs map[string]namedcache.Config

	// caches holds the named caches materialized so far.
	caches map[string]*namedcache.NamedCache

	metrics types.Metrics
	now     func() time.Time

	// sf collapses concurrent CachedCall misses for the same (name, key).
	sf singleflight.Group
}

// Option customizes a Registry.
type Option func(*Registry)

// WithMetrics routes events of every named cache to m.
func WithMetrics(m types.Metrics) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithClock replaces time.Now for every named cache.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry returns an empty registry. Register configurations before use.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		configs: make(map[string]namedcache.Config),
		caches:  make(map[string]*namedcache.NamedCache),
		metrics: types.NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry with DefaultConfigs registered.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	for name, cfg := range DefaultConfigs() {
		if err := r.RegisterConfig(name, cfg); err != nil {
			panic(err)
		}
	}
	return r
}

/*
RegisterConfig adds or replaces the configuration for name.

Replacing the configuration of a cache that already holds data does not
re-evict anything immediately: the new bounds apply on the next write or
Cleanup.
*/
func (r *Registry) RegisterConfig(name string, cfg namedcache.Config) error {
	if name == "" {
		return types.InvalidConfigError(name, "name", "must not be empty")
	}
	if err := cfg.Validate(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.caches[name]; ok {
		if err := c.Reconfigure(cfg); err != nil {
			return err
		}
	}
	r.configs[name] = cfg
	return nil
}

// Config returns the registered configuration for name.
func (r *Registry) Config(name string) (namedcache.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[name]
	if !ok {
		return namedcache.Config{}, types.UnknownCacheError(name)
	}
	return cfg, nil
}

// Names returns every registered cache name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Get(name, key string) (any, bool, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, false, err
	}
	if c == nil {
		r.metrics.Miss(name)
		return nil, false, nil
	}
	v, ok := c.Get(key)
	return v, ok, nil
}

func (r *Registry) Set(name, key string, value any) error {
	return r.SetWithSize(name, key, value, 1)
}

func (r *Registry) SetWithSize(name, key string, value any, sizeHint int) error {
	c, err := r.materialize(name)
	if err != nil {
		return err
	}
	c.SetWithSize(key, value, sizeHint)
	return nil
}

func (r *Registry) Has(name, key string) (bool, error) {
	c, err := r.lookup(name)
	if err != nil || c == nil {
		return false, err
	}
	return c.Has(key), nil
}

func (r *Registry) Remove(name, key string) (bool, error) {
	c, err := r.lookup(name)
	if err != nil || c == nil {
		return false, err
	}
	return c.Remove(key), nil
}

func (r *Registry) Clear(name string) error {
	c, err := r.lookup(name)
	if err != nil || c == nil {
		return err
	}
	c.Clear()
	return nil
}

func (r *Registry) Cleanup(name string) error {
	c, err := r.lookup(name)
	if err != nil || c == nil {
		return err
	}
	c.Cleanup()
	return nil
}

func (r *Registry) Stats(name string) (namedcache.Stats, error) {
	c, err := r.lookup(name)
	if err != nil || c == nil {
		return namedcache.Stats{}, err
	}
	return c.Stats(), nil
}

// CleanupAll runs Cleanup on every materialized cache.
func (r *Registry) CleanupAll() {
	for _, c := range r.materialized() {
		c.Cleanup()
	}
}

// StatsAll returns stats for every registered name. Names that never
// received a write report zero values.
func (r *Registry) StatsAll() map[string]namedcache.Stats {
	r.mu.RLock()
	out := make(map[string]namedcache.Stats, len(r.configs))
	for name := range r.configs {
		out[name] = namedcache.Stats{}
	}
	caches := make(map[string]*namedcache.NamedCache, len(r.caches))
	for name, c := range r.caches {
		caches[name] = c
	}
	r.mu.RUnlock()

	for name, c := range caches {
		out[name] = c.Stats()
	}
	return out
}

// ClearAll empties every cache. Configurations stay registered.
func (r *Registry) ClearAll() {
	for _, c := range r.materialized() {
		c.Clear()
	}
}

/*
Do runs fn at most once at a time per (name, key). Callers arriving while a
call is in flight wait and receive the same result, including its error.
A caller whose ctx is done stops waiting and gets ctx.Err(); the flight keeps
running for the others.
It does not read or write the cache itself.
*/
func (r *Registry) Do(ctx context.Context, name, key string, fn func() (any, error)) (any, error) {
	ch := r.sf.DoChan(name+"\x00"+key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup resolves name to its cache. A registered name that has not been
// written to yet yields (nil, nil).
func (r *Registry) lookup(name string) (*namedcache.NamedCache, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.configs[name]; !ok {
		return nil, types.UnknownCacheError(name)
	}
	return r.caches[name], nil
}

func (r *Registry) materialize(name string) (*namedcache.NamedCache, error) {
	if c, err := r.lookup(name); err != nil || c != nil {
		return c, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.configs[name]
	if !ok {
		return nil, types.UnknownCacheError(name)
	}
	if c, ok := r.caches[name]; ok {
		return c, nil
	}

	c, err := namedcache.New(name, cfg,
		namedcache.WithMetrics(r.metrics),
		namedcache.WithClock(r.now),
	)
	if err != nil {
		return nil, err
	}
	r.caches[name] = c
	return c, nil
}

func (r *Registry) materialized() []*namedcache.NamedCache {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*namedcache.NamedCache, 0, len(r.caches))
	for _, c := range r.caches {
		out = append(out, c)
	}
	return out
}
