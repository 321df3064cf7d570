package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache is the in-process fallback cache
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]*entry
	done chan struct{}
}

type entry struct {
	value      []byte
	expiration time.Time
}

// NewMemoryCache creates an in-memory cache with a background sweeper
func NewMemoryCache() *MemoryCache {
	mc := &MemoryCache{
		data: make(map[string]*entry),
		done: make(chan struct{}),
	}
	go mc.sweep()
	return mc
}

// Get retrieves a value, treating expired entries as misses
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || time.Now().After(e.expiration) {
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with a TTL
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = &entry{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Exists checks whether a live entry is present
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || time.Now().After(e.expiration) {
		return false, nil
	}
	return true, nil
}

// Clear removes all keys matching pattern (prefix* wildcards only)
func (m *MemoryCache) Clear(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.data {
		if matchPattern(key, pattern) {
			delete(m.data, key)
		}
	}
	return nil
}

// sweep periodically drops expired entries
func (m *MemoryCache) sweep() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, e := range m.data {
				if now.After(e.expiration) {
					delete(m.data, key)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// Close stops the sweeper
func (m *MemoryCache) Close() error {
	close(m.done)
	return nil
}

func matchPattern(s, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}
	return s == pattern
}
