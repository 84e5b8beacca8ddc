// Package cache provides the shared caches used by trigger evaluation: an
// LRU cache for boolean evaluation results and a compiled-regex cache.
package cache

import (
	"container/list"
	"sync"
)

// DefaultResultCapacity bounds the evaluation-result cache.
const DefaultResultCapacity = 5000

// lruEntry pairs a key with its value so an eviction can also drop the map
// entry.
type lruEntry struct {
	key   string
	value bool
}

// LRU is a thread-safe least-recently-used cache for boolean evaluation
// results. Get promotes the entry; Set on a full cache evicts exactly the
// least recently used entry before inserting.
type LRU struct {
	items    map[string]*list.Element
	order    *list.List // front is most recently used
	capacity int
	mu       sync.Mutex
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultResultCapacity
	}
	return &LRU{
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get retrieves a cached result and marks it most recently used.
func (c *LRU) Get(key string) (value, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).value, true
}

// Set stores a result, evicting the least recently used entry when full.
func (c *LRU) Set(key string, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry{key: key, value: value})
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
