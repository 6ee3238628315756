package cache

import (
	"time"

	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/namedcache"
)

// Well-known cache roles.
const (
	// API holds product records and computed scores: short-lived, high churn.
	API = "api"

	// Search holds fuzzy search results: shortest-lived, frequency-weighted.
	Search = "search"

	// Images holds image references: long-lived.
	Images = "images"

	// Static holds static asset references: longest-lived, rarely replaced.
	Static = "static"
)

// DefaultConfigs returns a fresh copy of the built-in role configurations.
func DefaultConfigs() map[string]namedcache.Config {
	return map[string]namedcache.Config{
		API:    {MaxAge: 5 * time.Minute, MaxSize: 100, Policy: eviction.LRU},
		Search: {MaxAge: 2 * time.Minute, MaxSize: 50, Policy: eviction.LFU},
		Images: {MaxAge: time.Hour, MaxSize: 200, Policy: eviction.LRU},
		Static: {MaxAge: 24 * time.Hour, MaxSize: 500, Policy: eviction.FIFO},
	}
}
