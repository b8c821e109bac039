package cli

import (
	"context"
	"testing"

	"github.com/MusicFlow-app/HandFlow/internal/config"
	"github.com/MusicFlow-app/HandFlow/pkg/cache"
)

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
		{"0.0.0.0:80", "http://0.0.0.0:80"},
	}

	for _, tt := range tests {
		if got := displayURL(tt.addr); got != tt.want {
			t.Errorf("displayURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestNewServerCacheOff(t *testing.T) {
	c, err := newServerCache(config.CacheConfig{Backend: "off"})
	if err != nil {
		t.Fatalf("newServerCache(off) error: %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newServerCache(off) = %T, want cache.NullCache", c)
	}
}

func TestNewServerCacheMemory(t *testing.T) {
	c, err := newServerCache(config.CacheConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("newServerCache(memory) error: %v", err)
	}
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("newServerCache(memory) = %T, want *cache.MemoryCache", c)
	}
}

func TestNewServerCacheFile(t *testing.T) {
	dir := t.TempDir()
	c, err := newServerCache(config.CacheConfig{Backend: "file", Dir: dir})
	if err != nil {
		t.Fatalf("newServerCache(file) error: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newServerCache(file) = %T, want *cache.FileCache", c)
	}
}

func TestNewServerCacheUnknown(t *testing.T) {
	if _, err := newServerCache(config.CacheConfig{Backend: "redis"}); err == nil {
		t.Error("newServerCache with unknown backend should fail")
	}
}

func TestNewStoreMemory(t *testing.T) {
	st, err := newStore(context.Background(), config.StoreConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("newStore(memory) error: %v", err)
	}
	defer st.Close()
}

func TestNewStoreFile(t *testing.T) {
	st, err := newStore(context.Background(), config.StoreConfig{Backend: "file", Path: t.TempDir()})
	if err != nil {
		t.Fatalf("newStore(file) error: %v", err)
	}
	defer st.Close()
}

func TestNewStoreUnknown(t *testing.T) {
	if _, err := newStore(context.Background(), config.StoreConfig{Backend: "dynamo"}); err == nil {
		t.Error("newStore with unknown backend should fail")
	}
}
