// Package cache holds a small generic LRU.  The section renderer memoises
// Markdown output in it; a few thousand entries is the intended scale.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a fixed-capacity least-recently-used map.  Safe for concurrent
// use; every call takes one mutex.
type LRU[K comparable, V any] struct {
	mu    sync.Mutex
	max   int
	order *list.List // front is most recent
	items map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// New panics if capacity < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: LRU capacity must be at least 1")
	}
	return &LRU[K, V]{max: capacity, order: list.New(), items: make(map[K]*list.Element, capacity)}
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).val, true
}

// Add stores val under key, dropping the least recent entry when over
// capacity.
func (c *LRU[K, V]) Add(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).val = val
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, val: val})
	if c.order.Len() <= c.max {
		return
	}
	oldest := c.order.Remove(c.order.Back()).(*entry[K, V])
	delete(c.items, oldest.key)
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
