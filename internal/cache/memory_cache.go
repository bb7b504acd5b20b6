package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryItems bounds the in-memory cache when no size is configured
const DefaultMemoryItems = 10000

// MemoryCache is an in-process LRU cache with per-entry expiry.
// It backs deployments without Valkey and serves as the L1 of MultiLevelCache.
type MemoryCache struct {
	maxItems int
	items    *lru.Cache[string, memoryItem]
	// mu makes expiry checks and the removals they trigger atomic with writes
	mu  sync.Mutex
	now func() time.Time
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCache creates an LRU cache holding at most maxItems entries
func NewMemoryCache(maxItems int) *MemoryCache {
	if maxItems <= 0 {
		maxItems = DefaultMemoryItems
	}
	return &MemoryCache{
		maxItems: maxItems,
		items:    newLRU(maxItems),
		now:      time.Now,
	}
}

func newLRU(size int) *lru.Cache[string, memoryItem] {
	// New only fails for a non-positive size
	items, err := lru.New[string, memoryItem](size)
	if err != nil {
		panic(err)
	}
	return items
}

// Get returns a copy of the value under key, or nil when missing or expired
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, found := m.items.Get(key)
	if !found {
		return nil, nil
	}
	if m.expired(item) {
		m.items.Remove(key)
		return nil, nil
	}
	return append([]byte(nil), item.data...), nil
}

// Set stores a copy of value, evicting the least recently used entries over capacity
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = m.now().Add(expiration)
	}
	m.items.Add(key, memoryItem{data: append([]byte(nil), value...), expiresAt: expiresAt})
	return nil
}

// Delete removes a key from the cache
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Remove(key)
	return nil
}

// Exists reports whether an unexpired entry is stored under key
func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, found := m.items.Peek(key)
	return found && !m.expired(item), nil
}

// Close drops every entry
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Purge()
	return nil
}

// Health always succeeds for the in-process cache
func (m *MemoryCache) Health(context.Context) error {
	return nil
}

// Size returns the current number of entries, expired ones included
func (m *MemoryCache) Size() int {
	return m.items.Len()
}

// CleanupExpired removes all expired entries and returns how many were dropped
func (m *MemoryCache) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, key := range m.items.Keys() {
		if item, ok := m.items.Peek(key); ok && m.expired(item) {
			m.items.Remove(key)
			removed++
		}
	}
	return removed
}

func (m *MemoryCache) expired(item memoryItem) bool {
	return !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt)
}
