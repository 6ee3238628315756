// This file implements LFU eviction.

package eviction

import "github.com/kibblescan/sitecache/types"

type lfu struct{}

func (lfu) Type() PolicyType { return LFU }

// SelectSurvivors keeps the most frequently read entries.
// Among equally frequent entries the least recently used goes first.
func (lfu) SelectSurvivors(entries []*types.CacheEntry, maxSize int) []*types.CacheEntry {
	return selectSurvivors(entries, maxSize, lfuLess)
}

func lfuLess(a, b *types.CacheEntry) bool {
	if a.AccessCount != b.AccessCount {
		return a.AccessCount < b.AccessCount
	}
	return lruLess(a, b)
}
