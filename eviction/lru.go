// This file implements LRU eviction.

package eviction

import "github.com/kibblescan/sitecache/types"

type lru struct{}

func (lru) Type() PolicyType { return LRU }

// SelectSurvivors keeps the most recently touched entries.
func (lru) SelectSurvivors(entries []*types.CacheEntry, maxSize int) []*types.CacheEntry {
	return selectSurvivors(entries, maxSize, lruLess)
}

/*
lruLess orders entries stalest first.

1. Older LastAccessedAt goes first
2. Equal timestamps: the logical Tick decides, so a read that landed in the
   same clock instant as an insert still counts as more recent
3. Older CreatedAt, then older insertion
*/
func lruLess(a, b *types.CacheEntry) bool {
	if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
		return a.LastAccessedAt.Before(b.LastAccessedAt)
	}
	if a.Tick != b.Tick {
		return a.Tick < b.Tick
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return olderInsert(a, b)
}
