package namedcache

import (
	"time"

	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/types"
)

// Config is the immutable configuration of one named cache.
type Config struct {
	// MaxAge is how long an entry lives after it is written. Must be positive.
	MaxAge time.Duration

	// MaxSize caps the number of live entries. Zero is legal and keeps nothing.
	MaxSize int

	// Policy selects which entries survive when MaxSize is exceeded.
	Policy eviction.PolicyType
}

// Validate returns a *types.ConfigurationError describing the first invalid
// field, or nil. name is only used to label the error.
func (c Config) Validate(name string) error {
	if c.MaxAge <= 0 {
		return types.InvalidConfigError(name, "max age", "must be positive")
	}
	if c.MaxSize < 0 {
		return types.InvalidConfigError(name, "max size", "must not be negative")
	}
	if !c.Policy.Valid() {
		return types.InvalidConfigError(name, "policy", "unknown eviction policy "+string(c.Policy))
	}
	return nil
}
