package store

import (
	"context"
	"sync"
)

// MemoryStore keeps scores in process memory. Uploads die with the
// process, which is fine for a single-instance deployment where the TTL
// is minutes anyway.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]*Score
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]*Score)}
}

// Get retrieves a score, expiring it lazily.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Score, error) {
	s.mu.RLock()
	sc, ok := s.scores[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sc.IsExpired() {
		s.mu.Lock()
		delete(s.scores, id)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return sc, nil
}

// Set stores a score.
func (s *MemoryStore) Set(ctx context.Context, sc *Score) error {
	s.mu.Lock()
	s.scores[sc.ID] = sc
	s.mu.Unlock()
	return nil
}

// Delete removes a score.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.scores, id)
	s.mu.Unlock()
	return nil
}

// Cleanup removes expired scores.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sc := range s.scores {
		if sc.IsExpired() {
			delete(s.scores, id)
		}
	}
	return nil
}

// Close discards all scores.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.scores = make(map[string]*Score)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
