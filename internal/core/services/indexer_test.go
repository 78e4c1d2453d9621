package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/adapters/driven/storage/memory"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// fakeEmbedder returns fixed vectors from a lookup table, falling back
// to a unit vector. Calls count EmbedBatch invocations.
type fakeEmbedder struct {
	vectors map[string][]float32
	failure error
	Calls   int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.Calls++
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return 3 }
func (f *fakeEmbedder) ModelName() string            { return "fake-embedder" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

func textChunk(source, content string, index int) domain.Chunk {
	return domain.Chunk{
		Content: content,
		Type:    domain.ChunkText,
		Metadata: domain.ChunkMetadata{
			Source:     source,
			Filename:   "doc.txt",
			Type:       domain.ChunkText,
			ChunkIndex: index,
			ChunkID:    domain.NewChunkID(source, domain.ChunkText, index, content),
		},
	}
}

func TestIndex_WritesEntries(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, store, "documents")

	count, err := ix.Index(context.Background(), []domain.Chunk{
		textChunk("/docs/doc.txt", "first chunk content", 1),
		textChunk("/docs/doc.txt", "second chunk content", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, store.Len())
}

func TestIndex_DeduplicatesWithinBatch(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, store, "documents")

	// Same content at two indexes: distinct chunk ids but identical
	// external id, so only one entry survives.
	count, err := ix.Index(context.Background(), []domain.Chunk{
		textChunk("/docs/doc.txt", "repeated paragraph", 1),
		textChunk("/docs/doc.txt", "repeated paragraph", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, store.Len())
}

func TestIndex_SameContentDifferentSourcesKept(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, store, "documents")

	count, err := ix.Index(context.Background(), []domain.Chunk{
		textChunk("/docs/a.txt", "shared boilerplate", 1),
		textChunk("/docs/b.txt", "shared boilerplate", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndex_ReIngestionIsIdempotent(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, store, "documents")
	chunks := []domain.Chunk{
		textChunk("/docs/doc.txt", "stable content", 1),
	}

	for i := 0; i < 3; i++ {
		_, err := ix.Index(context.Background(), chunks)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.Len())
}

func TestIndex_EmbeddingFailurePropagates(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{failure: fmt.Errorf("quota exceeded")}, store, "documents")

	_, err := ix.Index(context.Background(), []domain.Chunk{
		textChunk("/docs/doc.txt", "content", 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Zero(t, store.Len())
}

func TestIndex_EmptyBatch(t *testing.T) {
	embedder := &fakeEmbedder{}
	ix := NewIndexer(embedder, memory.NewVectorStore(), "documents")

	count, err := ix.Index(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, embedder.Calls)
}

// rejectingStore errors on every upsert.
type rejectingStore struct {
	driven.VectorStore
}

func (rejectingStore) Upsert(context.Context, []driven.Entry) error {
	return fmt.Errorf("disk full")
}

func TestIndex_FailureLogsNameCollection(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	chunks := []domain.Chunk{textChunk("/docs/doc.txt", "content", 1)}

	ix := NewIndexer(&fakeEmbedder{failure: fmt.Errorf("quota exceeded")}, memory.NewVectorStore(), "research-notes")
	_, err := ix.Index(context.Background(), chunks)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"research-notes"`)

	buf.Reset()
	ix = NewIndexer(&fakeEmbedder{}, rejectingStore{}, "research-notes")
	_, err = ix.Index(context.Background(), chunks)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"research-notes"`)
}

func TestIndex_StampsContentHash(t *testing.T) {
	store := memory.NewVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, store, "documents")

	_, err := ix.Index(context.Background(), []domain.Chunk{
		textChunk("/docs/doc.txt", "hello world", 1),
	})
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), []float32{1, 0, 0}, 1, driven.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.HashContent("hello world"), hits[0].Entry.Metadata.ContentHash)
	assert.Equal(t, domain.ExternalID("/docs/doc.txt", domain.HashContent("hello world")), hits[0].Entry.ID)
}
