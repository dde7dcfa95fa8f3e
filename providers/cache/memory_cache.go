package cache

import (
	"context"
	"sync"
	"time"

	"skywatch.app/models"
)

type cacheEntry struct {
	conditions *models.CurrentConditions
	expiresAt  time.Time
}

// MemoryCache is an in-process conditions cache with periodic expiry sweeps
type MemoryCache struct {
	data   map[string]cacheEntry
	mutex  sync.RWMutex
	ticker *time.Ticker
	stopCh chan struct{}
}

// NewMemoryCache creates an in-memory cache and starts its cleanup goroutine
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data:   make(map[string]cacheEntry),
		ticker: time.NewTicker(5 * time.Minute),
		stopCh: make(chan struct{}),
	}

	go cache.cleanup()
	return cache
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.CurrentConditions, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.conditions, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value *models.CurrentConditions, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheEntry{
		conditions: value,
		expiresAt:  time.Now().Add(ttl),
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
}

func (c *MemoryCache) Clear(_ context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheEntry)
}

// Stop terminates the background cleanup goroutine
func (c *MemoryCache) Stop() {
	c.ticker.Stop()
	close(c.stopCh)
}

func (c *MemoryCache) cleanup() {
	for {
		select {
		case <-c.ticker.C:
			c.evictExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) evictExpired() {
	now := time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
}
