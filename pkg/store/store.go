// Package store holds uploaded scores between the upload and generate
// requests.
//
// An upload is handed back to the browser as an opaque UUID, never a file
// path; the generate request exchanges the UUID for the stored archive.
// Entries expire after a short TTL and are purged by a janitor, so the
// store never accumulates abandoned uploads.
//
// Backends:
//   - memory: single-instance deployments and tests
//   - file: single binary with restarts surviving uploads
//   - redis: multi-instance deployments, TTL enforced server-side
//   - mongo: document-db option, TTL enforced by an index
//
// # Usage
//
//	st := store.NewMemoryStore()
//
//	sc := store.New("piece.mscz", archive, meta, parts, store.DefaultTTL)
//	if err := st.Set(ctx, sc); err != nil {
//	    return err
//	}
//
//	sc, err := st.Get(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // expired or never uploaded
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no score exists under the given ID.
	ErrNotFound = errors.New("score not found")

	// ErrExpired is returned when the score existed but outlived its TTL.
	// Callers usually treat it like ErrNotFound; the split exists so the
	// server can tell the user their upload timed out.
	ErrExpired = errors.New("score expired")
)

// DefaultTTL is how long an upload stays retrievable.
const DefaultTTL = 10 * time.Minute

// Score is one stored upload: the original archive bytes plus everything
// the selection form needs without re-decoding.
type Score struct {
	ID        string         `json:"id" bson:"_id"`
	Filename  string         `json:"filename" bson:"filename"`
	Archive   []byte         `json:"archive" bson:"archive"`
	Meta      score.Metadata `json:"meta" bson:"meta"`
	Parts     []PartInfo     `json:"parts" bson:"parts"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time      `json:"expires_at" bson:"expires_at"`
}

// PartInfo is the selectable identity of one part.
type PartInfo struct {
	Index   int    `json:"index" bson:"index"`
	Name    string `json:"name" bson:"name"`
	StaffID int    `json:"staff_id" bson:"staff_id"`
}

// IsExpired reports whether the score has outlived its TTL.
func (s *Score) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a stored score with a fresh UUID handle.
func New(filename string, archive []byte, meta score.Metadata, parts []PartInfo, ttl time.Duration) *Score {
	now := time.Now()
	return &Score{
		ID:        uuid.NewString(),
		Filename:  filename,
		Archive:   archive,
		Meta:      meta,
		Parts:     parts,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// PartInfos derives the selectable part list from a decoded document.
func PartInfos(doc *score.Document) []PartInfo {
	parts := make([]PartInfo, len(doc.Parts))
	for i, p := range doc.Parts {
		parts[i] = PartInfo{Index: i, Name: p.Name, StaffID: p.StaffID}
	}
	return parts
}

// Store is the interface for score storage backends.
type Store interface {
	// Get retrieves a score by ID. Returns ErrNotFound for unknown IDs
	// and ErrExpired for scores past their TTL.
	Get(ctx context.Context, id string) (*Score, error)

	// Set stores a score under its ID.
	Set(ctx context.Context, sc *Score) error

	// Delete removes a score. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired scores. Backends with server-side
	// expiration may make this a no-op.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// RunJanitor calls Cleanup on the given interval until ctx is cancelled.
// Backends with server-side expiration never need it but tolerate it.
func RunJanitor(ctx context.Context, st Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = st.Cleanup(ctx)
		}
	}
}
