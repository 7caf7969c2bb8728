package store

import (
	"container/list"
	"sync"
	"sync/atomic"

	km "github.com/kormarc/validator"
)

// recordCache is a thread-safe LRU cache of parsed records keyed by
// TOON identifier. It sits in front of the database so repeated reads
// skip JSON restoration.
type recordCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheEntry struct {
	id  string
	rec *km.Record
}

func newRecordCache(capacity int) *recordCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &recordCache{
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// get returns the cached record and moves it to the front.
func (c *recordCache) get(id string) (*km.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[id]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).rec, true
}

// put stores a record, evicting the least recently used entry when the
// cache is full.
func (c *recordCache) put(id string, rec *km.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[id]; ok {
		el.Value.(*cacheEntry).rec = rec
		c.order.MoveToFront(el)
		return
	}

	if len(c.entries) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).id)
			c.order.Remove(oldest)
		}
	}
	c.entries[id] = c.order.PushFront(&cacheEntry{id: id, rec: rec})
}

// remove drops an entry, if present.
func (c *recordCache) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[id]; ok {
		delete(c.entries, id)
		c.order.Remove(el)
	}
}

func (c *recordCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
}

func (c *recordCache) stats() CacheStats {
	return CacheStats{
		Size:     c.len(),
		Capacity: c.capacity,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}
