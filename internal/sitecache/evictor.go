// evictor.go houses the eviction loop for Cache.  Every interval it scans
// the map and removes:
//
//   - entries older than the TTL
//   - least-recently-used entries when the map exceeds maxEntries
//
// Each eviction updates Prometheus counters; the pass is logged at debug.
package sitecache

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
)

func (c *Cache[V]) evictLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.evict()
		}
	}
}

// evict runs one pass and returns how many entries it removed.
func (c *Cache[V]) evict() int {
	now := c.now().UnixNano()
	var count, removed int

	// ----------------------------------------------------------------
	// Expiry pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry[V])
		if time.Duration(now-ent.loadedAt) > c.ttl {
			if c.m.CompareAndDelete(key, value) {
				removed++
				metrics.CacheEvictTotal.WithLabelValues(c.name).Inc()
				metrics.CacheEntries.WithLabelValues(c.name).Dec()
			}
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU pass
	// ----------------------------------------------------------------
	if c.maxEntries > 0 && count > c.maxEntries {
		type kv struct {
			key string
			at  int64
		}
		all := make([]kv, 0, count)
		c.m.Range(func(key, value any) bool {
			ent := value.(*entry[V])
			all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
			return true
		})
		sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
		for i := 0; i < len(all)-c.maxEntries; i++ {
			if _, ok := c.m.LoadAndDelete(all[i].key); ok {
				removed++
				metrics.CacheEvictTotal.WithLabelValues(c.name).Inc()
				metrics.CacheEntries.WithLabelValues(c.name).Dec()
			}
		}
	}

	if removed > 0 {
		zap.L().Debug("cache eviction pass",
			zap.String("cache", c.name),
			zap.Int("removed", removed))
	}
	return removed
}
