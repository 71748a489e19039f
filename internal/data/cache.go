package data

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sync"
	"time"

	"nba-feature-stats/internal/model"
)

// CacheEntry represents a cached stats API response.
type CacheEntry struct {
	Response  *model.StatsResponse
	ExpiresAt time.Time
}

// ResponseCache is an in-memory TTL cache for stats API responses.
//
// It is meant for local development, where re-running the batch would otherwise hit
// the same endpoints again. config.ApplyEnv never enables it when API_ENV=production.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewResponseCache returns a cache; ttl <= 0 defaults to one hour.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResponseCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached response if available and not expired.
func (c *ResponseCache) Get(key string) (*model.StatsResponse, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response and drops any expired entries.
func (c *ResponseCache) Set(key string, response *model.StatsResponse) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = &CacheEntry{
		Response:  response,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// GenerateCacheKey creates a cache key from an endpoint and its query parameters.
// url.Values.Encode sorts by key, so the key is deterministic.
func GenerateCacheKey(endpoint string, params url.Values) string {
	hash := sha256.Sum256([]byte(endpoint + "?" + params.Encode()))
	return hex.EncodeToString(hash[:])
}
