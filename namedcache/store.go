package namedcache

import "github.com/kibblescan/sitecache/types"

/*
This file defines how entries are actually held inside a named cache.
The store knows nothing about time or policies; it is a keyed set with a
cheap snapshot for the eviction policy to rank.
*/

// entryStore is not safe for concurrent use; NamedCache serializes access.
type entryStore struct {
	data map[string]*types.CacheEntry
}

func newEntryStore() *entryStore {
	return &entryStore{data: make(map[string]*types.CacheEntry)}
}

// Get retrieves an entry by key.
func (s *entryStore) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.data[key]
	return ent, ok
}

// Put inserts or replaces an entry.
func (s *entryStore) Put(ent *types.CacheEntry) {
	s.data[ent.Key] = ent
}

// Delete removes an entry and reports whether it was there.
func (s *entryStore) Delete(key string) bool {
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// Size returns how many entries are stored, expired ones included.
func (s *entryStore) Size() int {
	return len(s.data)
}

// Snapshot returns the stored entries in no particular order.
func (s *entryStore) Snapshot() []*types.CacheEntry {
	out := make([]*types.CacheEntry, 0, len(s.data))
	for _, ent := range s.data {
		out = append(out, ent)
	}
	return out
}

// Reset drops everything.
func (s *entryStore) Reset() {
	s.data = make(map[string]*types.CacheEntry)
}
