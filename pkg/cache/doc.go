// Package cache provides a generic, thread-safe LRU cache.
//
// The workflow expression environment uses it to keep compiled guard
// expressions, keyed by source text, so an expression is compiled once no matter
// how many transitions or subjects evaluate it.
//
// # Usage
//
//	compiled := cache.NewLRUCache[string, *Program](256)
//	compiled.SetEvictCallback(func(src string, p *Program) { p.Release() })
//
//	prog, err := compiled.GetOrLoad(src, compile)
//	if err != nil {
//	    return err
//	}
//
// Get and Put mark entries as recently used. When Put or GetOrLoad pushes the
// cache over capacity, the least recently used entry is evicted and the evict
// callback runs with the lock held, so callbacks must not call back into the
// cache.
//
// Stats exposes hit, miss and eviction counters.
package cache
