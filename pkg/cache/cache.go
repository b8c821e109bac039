// Package cache provides content-addressed caching for pipeline stage
// outputs.
//
// Every key is derived from the bytes of the stage's input plus the options
// that shaped the run, so entries never go stale: a changed archive, part
// selection or render option hashes to a different key. TTLs exist only to
// bound disk and memory growth.
//
// Backends:
//   - memory: in-process storage for the server default and tests
//   - file: on-disk storage shared between CLI runs
//   - null: caching disabled
package cache

import (
	"context"
	"sync"
	"time"
)

// Stage TTLs. Decoding an archive is the expensive stage; rendered
// artifacts rebuild in microseconds and get a shorter lease.
const (
	TTLScore     = 24 * time.Hour
	TTLTablature = 24 * time.Hour
	TTLArtifact  = 12 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MemoryCache is an in-process cache. It is the default for the server,
// where repeated generate requests against the same uploaded score hit
// the same process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value, expiring it lazily.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores a value.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Close discards all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
