package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/metrics"
	"github.com/kibblescan/sitecache/namedcache"
)

func TestPrometheus_CountsRegistryEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg)
	require.NoError(t, err)

	r := cache.NewRegistry(cache.WithMetrics(m))
	require.NoError(t, r.RegisterConfig("api", namedcache.Config{MaxAge: time.Minute, MaxSize: 1, Policy: eviction.LRU}))

	r.Set("api", "a", 1)
	r.Get("api", "a")
	r.Get("api", "b")
	r.Set("api", "c", 3)

	expected := `
# HELP sitecache_cache_events_total Cache events by cache name and kind (hit, miss, eviction, expire).
# TYPE sitecache_cache_events_total counter
sitecache_cache_events_total{cache="api",event="eviction"} 1
sitecache_cache_events_total{cache="api",event="hit"} 1
sitecache_cache_events_total{cache="api",event="miss"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sitecache_cache_events_total"))
}

func TestPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewPrometheus(reg)
	require.NoError(t, err)

	_, err = metrics.NewPrometheus(reg)
	assert.Error(t, err)
}

func TestStatsCollector(t *testing.T) {
	r := cache.NewDefaultRegistry()
	require.NoError(t, r.SetWithSize(cache.Images, "hero", "/img/hero.webp", 7))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(metrics.NewStatsCollector(r)))

	expected := `
# HELP sitecache_cache_entries Live entries per cache.
# TYPE sitecache_cache_entries gauge
sitecache_cache_entries{cache="api"} 0
sitecache_cache_entries{cache="images"} 1
sitecache_cache_entries{cache="search"} 0
sitecache_cache_entries{cache="static"} 0
# HELP sitecache_cache_weight Sum of size hints of live entries per cache.
# TYPE sitecache_cache_weight gauge
sitecache_cache_weight{cache="api"} 0
sitecache_cache_weight{cache="images"} 7
sitecache_cache_weight{cache="search"} 0
sitecache_cache_weight{cache="static"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sitecache_cache_entries", "sitecache_cache_weight"))
}
