// Package metrics exports cache activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kibblescan/sitecache/namedcache"
	"github.com/kibblescan/sitecache/types"
)

const namespace = "sitecache"

var _ types.Metrics = (*Prometheus)(nil)

// Prometheus implements types.Metrics with one counter vector labeled by
// cache name and event.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus creates the counters and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "events_total",
		Help:      "Cache events by cache name and kind (hit, miss, eviction, expire).",
	}, []string{"cache", "event"})

	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &Prometheus{events: events}, nil
}

func (p *Prometheus) Hit(cache string)      { p.events.WithLabelValues(cache, "hit").Inc() }
func (p *Prometheus) Miss(cache string)     { p.events.WithLabelValues(cache, "miss").Inc() }
func (p *Prometheus) Eviction(cache string) { p.events.WithLabelValues(cache, "eviction").Inc() }
func (p *Prometheus) Expire(cache string)   { p.events.WithLabelValues(cache, "expire").Inc() }

// StatsSource is anything that can report per-cache stats, typically *cache.Registry.
type StatsSource interface {
	StatsAll() map[string]namedcache.Stats
}

// StatsCollector publishes live size, weight and mean age per cache at scrape time.
type StatsCollector struct {
	source  StatsSource
	entries *prometheus.Desc
	weight  *prometheus.Desc
	avgAge  *prometheus.Desc
}

// NewStatsCollector wraps source. Register the result with a prometheus.Registerer.
func NewStatsCollector(source StatsSource) *StatsCollector {
	return &StatsCollector{
		source: source,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Live entries per cache.", []string{"cache"}, nil),
		weight: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "weight"),
			"Sum of size hints of live entries per cache.", []string{"cache"}, nil),
		avgAge: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "average_age_seconds"),
			"Mean age of live entries per cache.", []string{"cache"}, nil),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.weight
	ch <- c.avgAge
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	for name, st := range c.source.StatsAll() {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Size), name)
		ch <- prometheus.MustNewConstMetric(c.weight, prometheus.GaugeValue, float64(st.Weight), name)
		ch <- prometheus.MustNewConstMetric(c.avgAge, prometheus.GaugeValue, st.AverageAge.Seconds(), name)
	}
}
