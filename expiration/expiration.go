package expiration

import (
	"time"

	"github.com/kibblescan/sitecache/types"
)

/*
Strategy owns the lifetime bookkeeping of a cache entry.

A named cache asks it whether an entry is dead before returning or counting
it, and hands every read and write to it so the timestamps and access count
that eviction ranks on stay current. MaxAge is the rule every role uses.
*/
type Strategy interface {
	IsExpired(ent *types.CacheEntry, now time.Time) bool

	// OnAccess records a successful read at now.
	OnAccess(ent *types.CacheEntry, now time.Time)

	// OnWrite starts a new life for the entry at now.
	OnWrite(ent *types.CacheEntry, now time.Time)
}
