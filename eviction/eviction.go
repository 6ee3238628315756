package eviction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kibblescan/sitecache/types"
)

/*
This file defines how the cache decides what to keep when it runs out of space.
*/

/*
Policy is the interface that all eviction strategies must follow.

A policy is a pure function over a snapshot of entries: it never mutates the
entries it is given and keeps no state between calls. The cache owns all
bookkeeping (timestamps, access counts, sequence numbers) and the policy only
reads it.
*/
type Policy interface {

	// SelectSurvivors returns at most maxSize entries from entries.
	//
	// BEHAVIOR:
	// ---------
	// - len(entries) <= maxSize: every entry is returned
	// - otherwise: the maxSize entries that rank last in eviction order
	// - maxSize <= 0: nothing survives
	//
	// The input slice is not reordered.
	SelectSurvivors(entries []*types.CacheEntry, maxSize int) []*types.CacheEntry

	// Type reports which strategy this is.
	Type() PolicyType
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): Evicts the entry that has NOT been accessed for the longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): Evicts the entry that has been accessed the fewest times.
	// This works well when:
	// - Some keys are consistently hot
	// - Some keys are rarely used
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): Evicts the oldest inserted entry, regardless of access.
	FIFO PolicyType = "FIFO"
)

// Valid reports whether t names a known strategy.
func (t PolicyType) Valid() bool {
	switch t {
	case LRU, LFU, FIFO:
		return true
	}
	return false
}

// ParsePolicy converts a user-supplied tag into a PolicyType.
// Matching is case-insensitive; unknown tags are an error, never a default.
func ParsePolicy(s string) (PolicyType, error) {
	t := PolicyType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown eviction policy %q", s)
	}
	return t, nil
}

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it returns the matching policy, or an error for unknown tags.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch t {
	case LRU:
		return lru{}, nil
	case LFU:
		return lfu{}, nil
	case FIFO:
		return fifo{}, nil
	default:
		return nil, fmt.Errorf("unknown eviction policy %q", t)
	}
}

// evictFirst reports whether a should be dropped before b.
type evictFirst func(a, b *types.CacheEntry) bool

// selectSurvivors is shared by every policy: order a copy so that the
// first-to-go entries come first, then keep the tail.
func selectSurvivors(entries []*types.CacheEntry, maxSize int, less evictFirst) []*types.CacheEntry {
	if maxSize < 0 {
		maxSize = 0
	}

	out := make([]*types.CacheEntry, len(entries))
	copy(out, entries)

	if len(out) <= maxSize {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	return out[len(out)-maxSize:]
}

// olderInsert is the final tie-break for all policies: insertion order.
func olderInsert(a, b *types.CacheEntry) bool {
	return a.Seq < b.Seq
}
