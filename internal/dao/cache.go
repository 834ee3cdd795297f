package dao

import (
	"sync"
	"sync/atomic"
)

// CacheStats reports page cache effectiveness.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// PageCache maps a query to the users fetched for it. Entries never expire;
// the whole cache is dropped on any mutation.
type PageCache struct {
	data   map[Query][]User
	epoch  uint64
	hits   atomic.Uint64
	misses atomic.Uint64
	mx     sync.RWMutex
}

// NewPageCache creates an empty PageCache.
func NewPageCache() *PageCache {
	return &PageCache{
		data: make(map[Query][]User),
	}
}

// Get returns the users cached for q.
func (c *PageCache) Get(q Query) ([]User, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	uu, ok := c.data[q]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)

	return cloneUsers(uu), true
}

// Put stores users for q. The write is dropped if the cache was cleared
// since epoch was read.
func (c *PageCache) Put(q Query, uu []User, epoch uint64) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	if epoch != c.epoch {
		return false
	}
	c.data[q] = cloneUsers(uu)

	return true
}

// Epoch returns the current invalidation counter.
func (c *PageCache) Epoch() uint64 {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.epoch
}

// Clear removes all entries.
func (c *PageCache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data = make(map[Query][]User)
	c.epoch++
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.data)
}

// Stats returns hit/miss counters and entry count.
func (c *PageCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}

func cloneUsers(uu []User) []User {
	if uu == nil {
		return nil
	}
	out := make([]User, len(uu))
	copy(out, uu)
	return out
}
