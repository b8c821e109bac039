package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. It backs --no-cache runs, where every
// stage recomputes.
type NullCache struct{}

// NewNullCache returns the no-op cache.
func NewNullCache() NullCache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
