package services

import (
	"context"
	"fmt"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Indexer embeds chunks and writes them into the vector store under
// deterministic external ids.
type Indexer struct {
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	collection string
}

// NewIndexer creates an indexer writing into the named collection. The
// name is only used to label log output; the store itself is already
// bound to it.
func NewIndexer(embedder driven.EmbeddingService, store driven.VectorStore, collection string) *Indexer {
	return &Indexer{embedder: embedder, store: store, collection: collection}
}

// Index stamps content hashes, deduplicates the batch by external id,
// embeds the surviving chunks in one call and upserts them. Identical
// content from the same source collapses to one entry; together with
// upsert-by-id this makes re-ingestion idempotent. Returns the number
// of entries written.
func (ix *Indexer) Index(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(chunks))
	unique := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		chunk.Metadata.ContentHash = domain.HashContent(chunk.Content)
		id := domain.ExternalID(chunk.Metadata.Source, chunk.Metadata.ContentHash)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, chunk)
	}
	if dropped := len(chunks) - len(unique); dropped > 0 {
		logger.Debug("Deduplicated %d identical chunk(s) within batch", dropped)
	}

	texts := make([]string, len(unique))
	for i, chunk := range unique {
		texts[i] = chunk.Content
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding batch of %d chunk(s) for collection %q failed: %v", len(unique), ix.collection, err)
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(unique) {
		return 0, fmt.Errorf("embedding chunks: expected %d vectors, got %d", len(unique), len(embeddings))
	}

	entries := make([]driven.Entry, len(unique))
	for i, chunk := range unique {
		entries[i] = driven.Entry{
			ID:        domain.ExternalID(chunk.Metadata.Source, chunk.Metadata.ContentHash),
			Content:   chunk.Content,
			Embedding: embeddings[i],
			Metadata:  chunk.Metadata,
		}
	}

	if err := ix.store.Upsert(ctx, entries); err != nil {
		logger.Warn("Indexing %d entries into collection %q failed: %v", len(entries), ix.collection, err)
		return 0, fmt.Errorf("indexing chunks: %w", err)
	}

	logger.Debug("Indexed %d entries", len(entries))
	return len(entries), nil
}
