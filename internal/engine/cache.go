package engine

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is an in-memory key-value store with a per-entry TTL. An entry is
// never returned after its expiry: reads evict lazily, and a background loop
// sweeps the rest.
//
// A Cache is constructed in main and injected into whatever serves requests,
// so tests get isolated instances.
type Cache struct {
	entries         sync.Map // key → *cacheEntry
	defaultTTL      time.Duration
	maxEntries      int
	cleanupInterval time.Duration
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache creates a cache with the given default TTL and entry bound.
// cleanupInterval <= 0 disables the background sweep (reads still evict).
func NewCache(defaultTTL time.Duration, maxEntries int, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		defaultTTL:      defaultTTL,
		maxEntries:      maxEntries,
		cleanupInterval: cleanupInterval,
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("gt:%x", hash[:12]) // 24-char hex prefix
}

// Get returns the stored bytes if the entry exists and has not expired.
// Expired entries are deleted on the spot.
func (c *Cache) Get(key string) ([]byte, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		IncrCacheMiss()
		return nil, false
	}
	entry := val.(*cacheEntry)
	if !time.Now().Before(entry.expiresAt) {
		c.entries.Delete(key)
		IncrCacheMiss()
		return nil, false
	}
	IncrCacheHit()
	return entry.data, true
}

// Set stores data under key with the default TTL.
func (c *Cache) Set(key string, data []byte) {
	c.SetTTL(key, data, c.defaultTTL)
}

// SetTTL stores data under key with an explicit TTL.
func (c *Cache) SetTTL(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.evictIfNeeded()
	c.entries.Store(key, &cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Delete removes an entry.
func (c *Cache) Delete(key string) {
	c.entries.Delete(key)
}

// Len counts live entries, expired ones included until swept.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// CacheLoadJSON tries to load a cached value of type T.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](c *Cache, key string) (T, bool) {
	var zero T
	data, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it with the given TTL (0 = default).
func CacheStoreJSON[T any](c *Cache, key string, v T, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.SetTTL(key, data, ttl)
}

// evictIfNeeded removes entries when the cache exceeds maxEntries.
// Removes expired entries first, then oldest entries if still over limit.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := c.Len()
	if count < c.maxEntries {
		return
	}

	// Phase 1: remove expired
	now := time.Now()
	c.entries.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.entries.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	if count < c.maxEntries {
		return
	}

	// Phase 2: remove oldest entries until under limit.
	// Earlier expiry = older entry (expiry = createdAt + ttl), close enough
	// given entries share a handful of per-route TTLs.
	var oldest struct {
		key any
		at  time.Time
	}
	for count >= c.maxEntries {
		oldest.key = nil
		oldest.at = now.Add(24 * time.Hour) // far future
		c.entries.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && entry.expiresAt.Before(oldest.at) {
				oldest.key = key
				oldest.at = entry.expiresAt
			}
			return true
		})
		if oldest.key == nil {
			break
		}
		c.entries.Delete(oldest.key)
		count--
	}
}

// cleanupLoop periodically removes expired entries.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.entries.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
				c.entries.Delete(key)
			}
			return true
		})
	}
}
