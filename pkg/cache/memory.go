package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-wide TTL cache backed by patrickmn/go-cache.
type MemoryCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates an in-process cache. Expired entries are purged
// every cleanupInterval; lookups never return them in between.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, cleanupInterval),
		ttl:   defaultTTL,
	}
}

// Get returns a copy of the stored bytes.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a copy of value so later mutation by the caller is not observed.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	data := make([]byte, len(value))
	copy(data, value)
	m.store.Set(key, data, ttl)
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (m *MemoryCache) Len() int {
	return m.store.ItemCount()
}

// Ping always succeeds for the in-process store.
func (m *MemoryCache) Ping(context.Context) error { return nil }
