package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/dukaforge/stockroom/pkg/types"
)

// entry is one cached page together with its fingerprint and store time.
type entry struct {
	fp       Fingerprint
	result   types.PagedResult
	storedAt time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size          int   `json:"size"`
	Capacity      int   `json:"capacity"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
	Invalidations int64 `json:"invalidations"`
}

// HitRate returns hits as a fraction of all lookups, or 0 before the first.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ResultCache maps query fingerprints to most-recently-computed pages.
// Capacity is bounded by LRU eviction. Entries have no expiry by default;
// they live until a write invalidates them, a non-zero TTL lapses, or
// eviction removes them. Safe for concurrent use; critical sections cover
// map and list bookkeeping only, never query execution.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration // zero disables expiry
	order    *list.List    // front = most recently used, values are *entry
	entries  map[string]*list.Element

	hits          int64
	misses        int64
	evictions     int64
	invalidations int64
}

// New creates a ResultCache with the given capacity and TTL. A non-positive
// capacity falls back to the default; a zero TTL disables expiry.
func New(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = types.DefaultCacheCapacity
	}
	return &ResultCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the cached page for the fingerprint, if present and unexpired.
// A hit promotes the entry to most recently used. An expired entry is
// removed and reported as a miss, never as a stale hit.
func (c *ResultCache) Get(fp Fingerprint) (types.PagedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[fp.Key]
	if !ok {
		c.misses++
		return types.PagedResult{}, false
	}

	e := elem.Value.(*entry)
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		c.removeLocked(elem)
		c.misses++
		return types.PagedResult{}, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return e.result, true
}

// Put stores a page under the fingerprint, replacing any previous entry and
// evicting the least recently used entry when at capacity. Last writer wins
// on concurrent puts for the same key.
func (c *ResultCache) Put(fp Fingerprint, result types.PagedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[fp.Key]; ok {
		e := elem.Value.(*entry)
		e.result = result
		e.storedAt = time.Now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
			c.evictions++
		}
	}

	elem := c.order.PushFront(&entry{fp: fp, result: result, storedAt: time.Now()})
	c.entries[fp.Key] = elem
}

// Invalidate removes every entry whose fingerprint references the table and
// returns the number removed. Callers invoke this after any write to the
// table, so no page computed before the write can be served after it.
func (c *ResultCache) Invalidate(table string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*entry).fp.References(table) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	c.invalidations += int64(removed)
	return removed
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len returns the number of cached entries, including any not yet expired.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Stats returns a snapshot of cache counters.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:          c.order.Len(),
		Capacity:      c.capacity,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		Invalidations: c.invalidations,
	}
}

// removeLocked unlinks an element from both the list and the map.
// The caller must hold c.mu.
func (c *ResultCache) removeLocked(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry).fp.Key)
}
