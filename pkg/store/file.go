package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps scores as JSON files in a directory. It suits a single
// binary that should survive restarts without external services.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir. An empty
// baseDir defaults to handflow/scores under the user config directory,
// ~/.config/handflow/scores on Linux.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		baseDir = filepath.Join(cfg, "handflow", "scores")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create score dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) scorePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get retrieves a score, removing the file when it has expired.
func (s *FileStore) Get(ctx context.Context, id string) (*Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.scorePath(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read score file: %w", err)
	}

	var sc Score
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse score file: %w", err)
	}
	if sc.IsExpired() {
		_ = os.Remove(s.scorePath(id))
		return nil, ErrExpired
	}
	return &sc, nil
}

// Set stores a score. The write goes through a temp file so a reader
// in another process never sees a torn entry.
func (s *FileStore) Set(ctx context.Context, sc *Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	tmp, err := os.CreateTemp(s.baseDir, ".score-*")
	if err != nil {
		return fmt.Errorf("write score file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write score file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write score file: %w", err)
	}
	return os.Rename(tmp.Name(), s.scorePath(sc.ID))
}

// Delete removes a score.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.scorePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove score file: %w", err)
	}
	return nil
}

// Cleanup sweeps the directory for expired scores.
func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read score dir: %w", err)
	}
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		s.sweep(filepath.Join(s.baseDir, entry.Name()), now)
	}
	return nil
}

// sweep removes path when its score has expired. Entries that no longer
// parse are leftovers from an older build and go too.
func (s *FileStore) sweep(path string, now time.Time) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var sc Score
	if err := json.Unmarshal(data, &sc); err != nil || now.After(sc.ExpiresAt) {
		_ = os.Remove(path)
	}
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for score files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
