package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/mikey/phishing-detector/internal/core"
	"go.uber.org/zap"
)

// MemoryCache is the default in-memory result cache: a mutex-guarded
// map with LRU eviction at a fixed capacity. Expired entries are
// dropped lazily on read; there is no background sweep.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	lru        *list.List
	maxEntries int
	logger     *zap.Logger
	now        func() time.Time
}

type memoryEntry struct {
	key   string
	entry *core.CacheEntry
}

// NewMemoryCache creates a new in-memory cache bounded at maxEntries
// fingerprints; maxEntries <= 0 disables the bound.
func NewMemoryCache(maxEntries int, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		maxEntries: maxEntries,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the cache clock. Used by tests to drive expiry.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Get retrieves the cached result for a fingerprint. An expired entry
// is removed and reported as a miss.
func (c *MemoryCache) Get(_ context.Context, fingerprint string) (*core.ScoreResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*memoryEntry).entry
	if !c.now().Before(entry.ExpiresAt) {
		c.lru.Remove(elem)
		delete(c.entries, fingerprint)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return entry.Result, true
}

// Set stores a result for a fingerprint, overwriting any previous
// entry and evicting the least recently used one when full.
func (c *MemoryCache) Set(_ context.Context, fingerprint string, result *core.ScoreResult, ttl time.Duration) {
	now := c.now()
	entry := &core.CacheEntry{
		Fingerprint: fingerprint,
		Result:      result,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[fingerprint]; ok {
		elem.Value.(*memoryEntry).entry = entry
		c.lru.MoveToFront(elem)
		return
	}

	if c.maxEntries > 0 && c.lru.Len() >= c.maxEntries {
		oldest := c.lru.Back()
		if oldest != nil {
			evicted := oldest.Value.(*memoryEntry)
			c.lru.Remove(oldest)
			delete(c.entries, evicted.key)
			c.logger.Debug("Evicted LRU cache entry",
				zap.String("fingerprint", evicted.key))
		}
	}

	c.entries[fingerprint] = c.lru.PushFront(&memoryEntry{key: fingerprint, entry: entry})
}

// Len reports the number of resident entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
