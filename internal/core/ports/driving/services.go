// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// IngestService ingests documents into the workspace index and keeps
// index state consistent with the set of uploaded files.
type IngestService interface {
	// IngestFile parses (or loads from cache), chunks and indexes one
	// file. Returns the number of chunks indexed.
	IngestFile(ctx context.Context, path string) (int, error)

	// IngestDirectory walks dir, skips hidden files and unsupported
	// extensions, and ingests each remaining file exactly once.
	IngestDirectory(ctx context.Context, dir string) (domain.IngestStats, error)

	// DeleteDocument removes every indexed chunk originating from the
	// given filename. Deleting a filename that was never indexed is a
	// no-op, not an error.
	DeleteDocument(ctx context.Context, filename string) (int, error)

	// Documents lists indexed filenames with their chunk counts.
	Documents(ctx context.Context) (map[string]int, error)
}

// RetrievalService executes similarity or MMR search over the index.
type RetrievalService interface {
	// Retrieve returns ranked chunks for the query. Failures degrade to
	// an empty list; they never propagate.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) []domain.RetrievedChunk
}

// AnswerService answers questions using retrieved context.
type AnswerService interface {
	// Ask retrieves context for the question and generates an answer.
	Ask(ctx context.Context, question string, opts domain.RetrievalOptions) (*domain.Answer, error)

	// AskStream is Ask with incremental token delivery.
	AskStream(ctx context.Context, question string, opts domain.RetrievalOptions, onToken func(string)) (*domain.Answer, error)
}
