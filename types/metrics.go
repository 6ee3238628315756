package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle, tagged with the name
of the cache it happened in.
*/
type Metrics interface {

	// Hit is called when a read returns a live value.
	Hit(cache string)

	// Miss is called when a read finds nothing (including lazily expired entries).
	Miss(cache string)

	// Eviction is called once per live entry dropped to satisfy the size bound.
	Eviction(cache string)

	// Expire is called once per entry removed because it outlived MaxAge.
	Expire(cache string)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics get a working cache without nil
checks sprinkled over the hot path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit(string)      {}
func (NoopMetrics) Miss(string)     {}
func (NoopMetrics) Eviction(string) {}
func (NoopMetrics) Expire(string)   {}
