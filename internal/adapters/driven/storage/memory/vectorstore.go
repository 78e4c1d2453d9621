// Package memory provides in-memory driven-port implementations used
// in tests and as lightweight fallbacks.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	entries map[string]driven.Entry
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{entries: make(map[string]driven.Entry)}
}

// Upsert stores or overwrites entries by id.
func (s *VectorStore) Upsert(_ context.Context, entries []driven.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		s.entries[entry.ID] = entry
	}
	return nil
}

// Search returns up to limit hits ranked by cosine similarity.
func (s *VectorStore) Search(_ context.Context, query []float32, limit int, filter driven.SearchFilter) ([]driven.Hit, error) {
	if limit <= 0 || len(query) == 0 {
		return []driven.Hit{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.Hit, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.Filename != "" && entry.Metadata.Filename != filter.Filename {
			continue
		}
		hits = append(hits, driven.Hit{
			Entry:      entry,
			Similarity: cosine(query, entry.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// IDsByFilename returns the ids of all entries for a filename.
func (s *VectorStore) IDsByFilename(_ context.Context, filename string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, entry := range s.entries {
		if entry.Metadata.Filename == filename {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DeleteByIDs removes the given entries. Unknown ids are ignored.
func (s *VectorStore) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// Filenames lists distinct filenames with their entry counts.
func (s *VectorStore) Filenames(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, entry := range s.entries {
		if entry.Metadata.Filename != "" {
			counts[entry.Metadata.Filename]++
		}
	}
	return counts, nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

// Len returns the number of stored entries.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
