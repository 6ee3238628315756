// This file implements FIFO eviction.

package eviction

import "github.com/kibblescan/sitecache/types"

type fifo struct{}

func (fifo) Type() PolicyType { return FIFO }

// SelectSurvivors keeps the most recently inserted entries. Reads are ignored.
func (fifo) SelectSurvivors(entries []*types.CacheEntry, maxSize int) []*types.CacheEntry {
	return selectSurvivors(entries, maxSize, fifoLess)
}

// fifoLess orders by CreatedAt; identical timestamps fall back to insertion order.
func fifoLess(a, b *types.CacheEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return olderInsert(a, b)
}
