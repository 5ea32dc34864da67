package datasource

import (
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/court-vision/internal/metrics"
)

// ResponseCache provides in-memory caching for parsed stats responses.
// The upstream stats endpoint is slow and aggressively rate limited, so
// repeated lookups within a run (team catalogs, rosters, box score
// aggregates) are served from here.
type ResponseCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResponseCache creates a new response cache
func NewResponseCache(ttl time.Duration, maxSize int) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// cacheKey builds a cache key from endpoint and parameter parts
func cacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get retrieves a cached response
func (rc *ResponseCache) Get(key string) (interface{}, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if value, found := rc.cache.Get(key); found {
		rc.hitCount++
		rc.updateMetricsLocked()
		return value, true
	}

	rc.missCount++
	rc.updateMetricsLocked()
	return nil, false
}

// Set stores a response in cache
func (rc *ResponseCache) Set(key string, value interface{}) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Check size limit
	if rc.cache.ItemCount() >= rc.maxSize {
		// Remove expired items first
		rc.cache.DeleteExpired()
	}

	rc.cache.Set(key, value, rc.ttl)
	metrics.UpdateCacheItems(rc.cache.ItemCount())
}

// Invalidate removes all cache entries whose key starts with prefix,
// e.g. one endpoint's entries
func (rc *ResponseCache) Invalidate(prefix string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for k := range rc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			rc.cache.Delete(k)
		}
	}
	metrics.UpdateCacheItems(rc.cache.ItemCount())
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
	metrics.UpdateCacheItems(0)
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetricsLocked updates Prometheus metrics, caller holds rc.mu
func (rc *ResponseCache) updateMetricsLocked() {
	total := rc.hitCount + rc.missCount
	if total == 0 {
		return
	}
	metrics.UpdateCacheHitRatio(float64(rc.hitCount) / float64(total))
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}
