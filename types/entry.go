package types

import "time"

// CacheEntry is the unit stored per key inside a named cache.
// Only the owning cache mutates it, always under its lock.
type CacheEntry struct {
	Key   string
	Value any

	// CreatedAt is set on insertion (or overwrite) and never touched afterwards.
	CreatedAt time.Time

	// LastAccessedAt and AccessCount are bookkeeping updated by successful reads.
	LastAccessedAt time.Time
	AccessCount    int

	// SizeHint is a caller-supplied weight. It is reported in stats but
	// capacity is always counted in entries.
	SizeHint int

	// Seq is the insertion sequence number inside the owning cache.
	Seq uint64

	// Tick is a logical clock value refreshed on insert and on every read.
	// It orders touches that share the same wall-clock timestamp.
	Tick uint64
}

// Age returns how long the entry has existed at the given moment.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
