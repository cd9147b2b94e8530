package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/infrastructure/notify"
)

// Defaults for query cache configuration
const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = 30 * time.Second
)

// QueryCache is an in-memory cache for derived read results. Each entry
// carries the invalidation keys of the source data it was computed
// from; a matching key dropped onto Invalidate removes the entry.
type QueryCache struct {
	entries sync.Map // map[string]*cacheEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with its tags and expiration time
type cacheEntry struct {
	value     any
	tags      map[string]struct{}
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// QueryCacheOption is a functional option for configuring the cache
type QueryCacheOption func(*QueryCache)

// WithTTL sets the entry lifetime
func WithTTL(ttl time.Duration) QueryCacheOption {
	return func(c *QueryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) QueryCacheOption {
	return func(c *QueryCache) {
		c.logger = logger
	}
}

// NewQueryCache creates a new query cache and starts its cleanup loop
func NewQueryCache(opts ...QueryCacheOption) *QueryCache {
	c := &QueryCache{
		ttl:    defaultTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a cached value. The second return is false on miss.
func (c *QueryCache) Get(key string) (any, bool) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("query cache hit", zap.String("key", key))
			return entry.value, true
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("query cache miss", zap.String("key", key))
	return nil, false
}

// Set stores a value tagged with the invalidation keys of its sources
func (c *QueryCache) Set(key string, value any, tags ...notify.InvalidationKey) {
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag.String()] = struct{}{}
	}

	c.entries.Store(key, &cacheEntry{
		value:     value,
		tags:      tagSet,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.logger.Debug("query cached",
		zap.String("key", key),
		zap.Int("tags", len(tagSet)),
	)
}

// Invalidate removes every entry tagged with the given key
func (c *QueryCache) Invalidate(key notify.InvalidationKey) {
	tag := key.String()
	var removed int

	c.entries.Range(func(k, v any) bool {
		entry := v.(*cacheEntry)
		if _, ok := entry.tags[tag]; ok {
			c.entries.Delete(k)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("query cache invalidated",
			zap.String("tag", tag),
			zap.Int("removed", removed),
		)
	}
}

// InvalidateAll removes all cached entries
func (c *QueryCache) InvalidateAll() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
	c.logger.Info("query cache cleared")
}

// Close stops the cleanup loop. Safe to call more than once.
func (c *QueryCache) Close() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// Stats returns hit and miss counts
func (c *QueryCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Len returns the number of cached entries
func (c *QueryCache) Len() int {
	var n int
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *QueryCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			var removed int
			c.entries.Range(func(k, v any) bool {
				if v.(*cacheEntry).isExpired() {
					c.entries.Delete(k)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("cleaned up expired cache entries", zap.Int("removed", removed))
			}
		}
	}
}
