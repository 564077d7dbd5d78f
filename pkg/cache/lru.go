package cache

import "sync"

// Stats reports cache usage counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// LRUCache is a thread-safe cache evicting the least recently used entry once
// capacity is exceeded.
type LRUCache[K comparable, V any] struct {
	mu      sync.Mutex
	limit   int
	nodes   map[K]*node[K, V]
	root    node[K, V] // root.next is the most recent entry, root.prev the oldest
	evictFn func(key K, value V)
	stats   Stats
}

// NewLRUCache creates a cache holding at most capacity entries.
// It panics if capacity is not positive.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	c := &LRUCache[K, V]{
		limit: capacity,
		nodes: make(map[K]*node[K, V], capacity),
	}
	c.root.prev, c.root.next = &c.root, &c.root
	return c
}

// SetEvictCallback registers fn to run for every entry dropped by eviction, Remove or Clear.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	c.evictFn = fn
	c.mu.Unlock()
}

// Get returns the value under key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key)
}

// Put stores value under key and returns the previous value, if any.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store(key, value)
}

// GetOrLoad returns the cached value under key or stores the result of load.
// Load errors are returned and nothing is cached. The lock is not held while
// load runs, so concurrent callers may load the same key more than once; the
// first stored value wins.
func (c *LRUCache[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	c.mu.Lock()
	v, ok := c.lookup(key)
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	loaded, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.nodes[key]; ok {
		c.touch(n)
		return n.value, nil
	}
	c.store(key, loaded)
	return loaded, nil
}

// Remove deletes the entry under key and returns its value.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.nodes[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.drop(n)
	return n.value, true
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// Stats returns a snapshot of the usage counters.
func (c *LRUCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clear removes every entry, oldest first, running the evict callback for each.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.root.prev != &c.root {
		c.drop(c.root.prev)
	}
}

// The helpers below expect c.mu to be held.

func (c *LRUCache[K, V]) lookup(key K) (V, bool) {
	n, ok := c.nodes[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.touch(n)
	return n.value, true
}

func (c *LRUCache[K, V]) store(key K, value V) (V, bool) {
	if n, ok := c.nodes[key]; ok {
		old := n.value
		n.value = value
		c.touch(n)
		return old, true
	}

	n := &node[K, V]{key: key, value: value}
	c.nodes[key] = n
	c.link(n)
	if len(c.nodes) > c.limit {
		c.drop(c.root.prev)
		c.stats.Evictions++
	}

	var zero V
	return zero, false
}

// touch moves n to the front of the recency list.
func (c *LRUCache[K, V]) touch(n *node[K, V]) {
	if c.root.next == n {
		return
	}
	c.unlink(n)
	c.link(n)
}

func (c *LRUCache[K, V]) link(n *node[K, V]) {
	n.prev = &c.root
	n.next = c.root.next
	c.root.next.prev = n
	c.root.next = n
}

func (c *LRUCache[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *LRUCache[K, V]) drop(n *node[K, V]) {
	c.unlink(n)
	delete(c.nodes, n.key)
	if c.evictFn != nil {
		c.evictFn(n.key, n.value)
	}
}
