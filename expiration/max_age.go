package expiration

import (
	"time"

	"github.com/kibblescan/sitecache/types"
)

/*
MaxAge expires an entry a fixed duration after it was written.
Reads never extend the lifetime: an entry read a thousand times still dies
TTL after its CreatedAt.
*/
type MaxAge struct {

	// TTL is how long an entry stays valid after it is written.
	TTL time.Duration
}

// IsExpired reports whether the entry is strictly older than TTL at now.
func (m *MaxAge) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.Age(now) > m.TTL
}

/*
OnAccess records a successful read.
1. Update LastAccessedAt to now
2. Bump AccessCount
*/
func (m *MaxAge) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.LastAccessedAt = now
	ent.AccessCount++
}

/*
OnWrite is called when the entry is first written or replaced.
A replacement is a brand new life for the key: both timestamps restart and the
access counter goes back to zero.
*/
func (m *MaxAge) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	ent.AccessCount = 0
}
