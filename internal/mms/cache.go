package mms

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"
)

type cacheEntry struct {
	table     *Table
	expiresAt time.Time
}

// TableCache is an in-memory TTL cache of fetched reports, keyed by
// (year, month, table). Published MMSDM archives are immutable once
// released, so a long TTL cannot serve stale data; the TTL exists only
// to bound memory held by large reports.
type TableCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

var globalCache *TableCache
var cacheOnce sync.Once

// NewTableCache creates a cache with the given entry TTL.
func NewTableCache(ttl time.Duration) *TableCache {
	return &TableCache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
	}
}

// GetCache returns the global cache instance if caching is enabled via
// NEMWEB_CACHE=true. Returns nil when caching is disabled.
func GetCache() *TableCache {
	if os.Getenv("NEMWEB_CACHE") != "true" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("NEMWEB_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = NewTableCache(ttl)
		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a cached table if present and not expired.
func (c *TableCache) Get(key string) (*Table, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.table, true
}

// Set stores a table in the cache.
func (c *TableCache) Set(key string, t *Table) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		table:     t,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *TableCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

// cleanup periodically removes expired entries.
func (c *TableCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheKey creates a cache key for one report fetch.
func CacheKey(year, month int, table string) string {
	keyStr := fmt.Sprintf("%04d:%02d:%s", year, month, table)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
