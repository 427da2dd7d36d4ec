// internal/cache/lru.go
//
// Tiny typed LRU used by internal/mount to hold form instances.  Each entry
// remembers when it was last touched so callers can also evict on idle time.
// Safe for concurrent use.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// EvictFunc is called, outside the cache lock, for every entry pushed out by
// capacity pressure or RemoveIdle.
type EvictFunc[K comparable, V any] func(key K, val V)

// LRU is a least-recently-used cache with idle tracking.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	ll      *list.List
	dict    map[K]*list.Element
	onEvict EvictFunc[K, V]
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key      K
	val      V
	lastSeen time.Time
}

// New returns an LRU with the given capacity.  Panics on capacity < 1.
func New[K comparable, V any](capacity int, onEvict EvictFunc[K, V]) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:     capacity,
		ll:      list.New(),
		dict:    make(map[K]*list.Element, capacity),
		onEvict: onEvict,
		now:     time.Now,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		e := ele.Value.(*entry[K, V])
		e.lastSeen = c.now()
		c.ll.MoveToFront(ele)
		return e.val, true
	}
	return val, false
}

// Add inserts or updates a value.  It reports whether an older entry was
// evicted to make room.
func (c *LRU[K, V]) Add(key K, val V) (evicted bool) {
	c.mu.Lock()
	if ele, hit := c.dict[key]; hit {
		e := ele.Value.(*entry[K, V])
		e.val, e.lastSeen = val, c.now()
		c.ll.MoveToFront(ele)
		c.mu.Unlock()
		return false
	}
	c.dict[key] = c.ll.PushFront(&entry[K, V]{key: key, val: val, lastSeen: c.now()})

	var victim *entry[K, V]
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		victim = last.Value.(*entry[K, V])
		delete(c.dict, victim.key)
	}
	c.mu.Unlock()

	if victim != nil && c.onEvict != nil {
		c.onEvict(victim.key, victim.val)
	}
	return victim != nil
}

// Remove deletes key.  It reports whether the key was present.  The evict
// callback is not called.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, hit := c.dict[key]
	if !hit {
		return false
	}
	c.ll.Remove(ele)
	delete(c.dict, key)
	return true
}

// RemoveIdle evicts every entry untouched for longer than ttl and returns how
// many were removed.
func (c *LRU[K, V]) RemoveIdle(ttl time.Duration) int {
	c.mu.Lock()
	cutoff := c.now().Add(-ttl)
	var victims []*entry[K, V]
	// Oldest entries sit at the back; stop at the first fresh one.
	for ele := c.ll.Back(); ele != nil; {
		e := ele.Value.(*entry[K, V])
		if !e.lastSeen.Before(cutoff) {
			break
		}
		prev := ele.Prev()
		c.ll.Remove(ele)
		delete(c.dict, e.key)
		victims = append(victims, e)
		ele = prev
	}
	c.mu.Unlock()

	if c.onEvict != nil {
		for _, e := range victims {
			c.onEvict(e.key, e.val)
		}
	}
	return len(victims)
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
