// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// Parser converts one source file into a list of parsed elements.
// Implementations are selected by file extension through the parser
// registry; they do not stamp source metadata themselves. The
// ingestion service stamps filename/filetype/filepath onto every
// returned element before further processing.
type Parser interface {
	// Parse reads the file at path and returns its elements in
	// document order.
	Parse(ctx context.Context, path string) ([]domain.Element, error)

	// Extensions returns the file extensions this parser handles,
	// lower-case with leading dot (".pdf").
	Extensions() []string
}
