// Package sitecache is a read-through cache in front of the site store.
//
// Every lookup goes through a singleflight group, so concurrent requests
// for the same key share one query even when caching is disabled.  With
// a positive TTL, successful results are kept in memory until they are
// older than the TTL or pushed out by the LRU pass of the evictor.
// Errors, including "not found", are never cached.
//
// Cached values are shared between requests and must be treated as
// read-only snapshots.
package sitecache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
)

// EvictInterval is how often the evictor scans.
const EvictInterval = time.Minute

type entry[V any] struct {
	val      V
	loadedAt int64 // UnixNano
	lastSeen int64 // UnixNano
}

// Cache memoises one kind of value by string key.
type Cache[V any] struct {
	name       string
	sfg        singleflight.Group
	m          sync.Map
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New returns a cache labelled name for metrics.  ttl <= 0 disables
// storage; the evictor only runs when storage is enabled.
func New[V any](name string, ttl time.Duration, maxEntries int) *Cache[V] {
	c := &Cache[V]{
		name:       name,
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if ttl > 0 {
		go c.evictLoop(EvictInterval)
	}
	return c
}

// Enabled reports whether results are stored.
func (c *Cache[V]) Enabled() bool { return c.ttl > 0 }

// Get returns the value for key, calling load on a miss.  The load runs
// detached from the caller's cancellation because other callers may be
// waiting on the same flight.
func (c *Cache[V]) Get(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		metrics.CacheHitTotal.WithLabelValues(c.name).Inc()
		return v, nil
	}

	res, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			metrics.CacheLoadErrorsTotal.WithLabelValues(c.name).Inc()
			return v, err
		}
		metrics.CacheLoadTotal.WithLabelValues(c.name).Inc()
		if c.Enabled() {
			now := c.now().UnixNano()
			if _, loaded := c.m.Swap(key, &entry[V]{val: v, loadedAt: now, lastSeen: now}); !loaded {
				metrics.CacheEntries.WithLabelValues(c.name).Inc()
			}
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops key so the next Get reloads it.
func (c *Cache[V]) Forget(key string) {
	if _, ok := c.m.LoadAndDelete(key); ok {
		metrics.CacheEntries.WithLabelValues(c.name).Dec()
	}
}

// Close stops the evictor.  Safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}
	v, ok := c.m.Load(key)
	if !ok {
		return zero, false
	}
	ent := v.(*entry[V])
	now := c.now()
	if now.Sub(time.Unix(0, ent.loadedAt)) > c.ttl {
		return zero, false
	}
	atomic.StoreInt64(&ent.lastSeen, now.UnixNano())
	return ent.val, true
}
