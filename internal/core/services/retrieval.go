package services

import (
	"context"
	"math"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService executes similarity or MMR search over the index.
type RetrievalService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	defaults domain.RetrievalSettings
}

// NewRetrievalService creates a retrieval service. Zero-valued option
// fields fall back to defaults.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	defaults domain.RetrievalSettings,
) *RetrievalService {
	if defaults.TopK <= 0 {
		defaults.TopK = 4
	}
	if defaults.FetchK <= 0 {
		defaults.FetchK = 20
	}
	if defaults.Lambda <= 0 || defaults.Lambda > 1 {
		defaults.Lambda = 0.5
	}
	return &RetrievalService{embedder: embedder, store: store, defaults: defaults}
}

// Retrieve returns ranked chunks for the query. Any failure degrades
// to an empty list so callers can always range over the result.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) []domain.RetrievedChunk {
	topK := opts.TopK
	if topK <= 0 {
		topK = s.defaults.TopK
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Embedding query failed: %v", err)
		return []domain.RetrievedChunk{}
	}

	filter := driven.SearchFilter{Filename: opts.Filename}
	useMMR := opts.MMR || s.defaults.MMR

	limit := topK
	if useMMR {
		// The filter constrains the candidate pool; MMR then selects
		// topK from it.
		limit = opts.FetchK
		if limit <= 0 {
			limit = s.defaults.FetchK
		}
		if limit < topK {
			limit = topK
		}
	}

	hits, err := s.store.Search(ctx, queryEmbedding, limit, filter)
	if err != nil {
		logger.Warn("Similarity search failed: %v", err)
		return []domain.RetrievedChunk{}
	}

	if useMMR {
		lambda := opts.Lambda
		if lambda <= 0 || lambda > 1 {
			lambda = s.defaults.Lambda
		}
		hits = mmrSelect(queryEmbedding, hits, topK, lambda)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if s.defaults.ScoreThreshold > 0 && hit.Similarity < s.defaults.ScoreThreshold {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: domain.Chunk{
				Content:  hit.Entry.Content,
				Type:     hit.Entry.Metadata.Type,
				Metadata: hit.Entry.Metadata,
			},
			Score: hit.Similarity,
		})
	}
	logger.Debug("Retrieved %d chunk(s) for query", len(results))
	return results
}

// mmrSelect picks k hits by maximal marginal relevance: each round
// takes the candidate maximising lambda*relevance minus
// (1-lambda)*similarity to the closest already-selected hit.
func mmrSelect(query []float32, candidates []driven.Hit, k int, lambda float64) []driven.Hit {
	if len(candidates) <= k {
		return candidates
	}

	selected := make([]driven.Hit, 0, k)
	remaining := make([]driven.Hit, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		best := -1
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				sim := cosineSim(cand.Entry.Embedding, sel.Entry.Embedding)
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*cand.Similarity - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				best = i
			}
		}

		selected = append(selected, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return selected
}

// cosineSim computes cosine similarity, 0 for mismatched or zero
// vectors.
func cosineSim(a, b []float32) float64 {
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
