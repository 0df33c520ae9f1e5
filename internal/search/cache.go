package search

import (
	"sort"
	"sync"
	"time"
)

// CountCache memoizes expensive result counts. It is a fixed-capacity map
// with per-entry expiry and least-recently-used eviction. The cache is
// strictly advisory: a miss or eviction only costs a recount, never
// correctness.
type CountCache struct {
	mu         sync.Mutex
	maxEntries int
	defaultTTL time.Duration
	entries    map[string]*countEntry
	now        func() time.Time
}

type countEntry struct {
	value     int64
	lastUsed  time.Time
	expiresAt time.Time
}

// NewCountCache creates a cache holding at most maxEntries counts, each
// living for defaultTTL unless Put overrides it.
func NewCountCache(maxEntries int, defaultTTL time.Duration) *CountCache {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &CountCache{
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*countEntry),
		now:        time.Now,
	}
}

// Get returns the cached count for key. Expired entries are evicted lazily
// at read time; there is no background sweep.
func (c *CountCache) Get(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return 0, false
	}

	now := c.now()
	if !now.Before(entry.expiresAt) {
		delete(c.entries, key)
		return 0, false
	}

	entry.lastUsed = now
	return entry.value, true
}

// Put stores a count under key with the given ttl (the default ttl when
// ttl <= 0). If the insert would exceed capacity, the least recently used
// entries are evicted first, ties broken by key.
func (c *CountCache) Put(key string, value int64, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if overflow := len(c.entries) - c.maxEntries + 1; overflow > 0 {
			c.evict(overflow)
		}
	}

	now := c.now()
	c.entries[key] = &countEntry{
		value:     value,
		lastUsed:  now,
		expiresAt: now.Add(ttl),
	}
}

// Len returns the number of entries currently held, including any not yet
// lazily expired.
func (c *CountCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict removes the n least recently used entries. Caller holds the lock.
func (c *CountCache) evict(n int) {
	type candidate struct {
		key      string
		lastUsed time.Time
	}
	candidates := make([]candidate, 0, len(c.entries))
	for key, entry := range c.entries {
		candidates = append(candidates, candidate{key: key, lastUsed: entry.lastUsed})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].lastUsed.Equal(candidates[j].lastUsed) {
			return candidates[i].key < candidates[j].key
		}
		return candidates[i].lastUsed.Before(candidates[j].lastUsed)
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, victim := range candidates[:n] {
		delete(c.entries, victim.key)
	}
}
