package driven

import (
	"context"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// Entry is a chunk projected into the vector store, keyed by its
// external id.
type Entry struct {
	// ID is the external id derived from source and content hash.
	ID string

	// Content is the embedded text.
	Content string

	// Embedding is the vector for Content.
	Embedding []float32

	// Metadata is the chunk metadata, persisted verbatim.
	Metadata domain.ChunkMetadata
}

// Hit is one similarity search result.
type Hit struct {
	Entry Entry

	// Similarity is the cosine similarity to the query vector (-1..1).
	Similarity float64
}

// SearchFilter constrains a similarity search by metadata equality.
type SearchFilter struct {
	// Filename, when non-empty, restricts hits to entries whose
	// filename metadata equals it.
	Filename string
}

// VectorStore persists embedded chunks and serves similarity queries.
// A store is addressed by a data directory and a named collection and
// uses cosine similarity. Upserting an existing id overwrites the
// entry; this is what makes re-ingestion idempotent.
type VectorStore interface {
	// Upsert writes all entries in one call. Existing ids are
	// overwritten, not duplicated.
	Upsert(ctx context.Context, entries []Entry) error

	// Search returns up to limit hits ranked by cosine similarity,
	// optionally constrained by filter. Hits carry their embeddings so
	// callers can re-rank (MMR).
	Search(ctx context.Context, query []float32, limit int, filter SearchFilter) ([]Hit, error)

	// IDsByFilename returns the ids of all entries whose filename
	// metadata matches. An empty result is not an error.
	IDsByFilename(ctx context.Context, filename string) ([]string, error)

	// DeleteByIDs removes the given entries in one call. Unknown ids
	// are ignored.
	DeleteByIDs(ctx context.Context, ids []string) error

	// Filenames lists the distinct filenames present in the collection
	// with their entry counts.
	Filenames(ctx context.Context) (map[string]int, error)

	// Close releases resources.
	Close() error
}
