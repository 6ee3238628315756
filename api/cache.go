package api

import "github.com/kibblescan/sitecache/namedcache"

/*
Cache defines the PUBLIC API of the named-cache registry.
This is a contract that guarantees certain behaviors, without exposing internals.
Eviction, expiration, locking and per-name configuration are all hidden
behind this interface.

Every method takes the cache name first. A name without a registered
configuration is a programming error: the call returns a
*types.ConfigurationError and changes nothing.
*/
type Cache interface {

	/*
		Get retrieves the value stored under key in the named cache.

		BEHAVIOR:
		-------------------
		1. If the key exists and is NOT expired:
		   - Record the access (count + timestamp)
		   - Return the value and true (cache hit)

		2. If the key does NOT exist or is expired:
		   - Expired entries are dropped on the spot
		   - Return nil and false (cache miss, not an error)
	*/
	Get(name, key string) (any, bool, error)

	/*
		Set stores a key-value pair in the named cache with a weight of 1.

		BEHAVIOR:
		---------
		- Replaces any previous entry for the key (fresh timestamps, zero reads)
		- Purges expired entries
		- Applies the eviction policy if the cache is over capacity
	*/
	Set(name, key string, value any) error

	// SetWithSize is Set with a caller-supplied weight used for reporting only.
	SetWithSize(name, key string, value any, sizeHint int) error

	/*
		Has reports whether a live entry exists for key.
		It is a pure membership test: reads through Has do not count as accesses
		and never influence eviction order.
	*/
	Has(name, key string) (bool, error)

	/*
		Remove deletes a key from the named cache immediately.
		This operation is idempotent: it reports whether the key was present.
	*/
	Remove(name, key string) (bool, error)

	// Clear empties the named cache.
	Clear(name string) error

	// Cleanup purges expired entries and re-applies the size bound.
	Cleanup(name string) error

	// Stats returns live size, mean age and weight of the named cache.
	Stats(name string) (namedcache.Stats, error)
}
