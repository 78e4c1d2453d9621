// Package pdf parses PDF files into page-wise narrative elements.
package pdf

import (
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts text from PDF files, one narrative element per page.
type Parser struct{}

// New creates a PDF parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pdf"}
}

// Parse reads the PDF and returns one element per non-empty page with
// the page number set. Pages that fail text extraction are logged and
// skipped; they do not fail the file.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var elements []domain.Element
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf page %d of %s: %v", i, path, err)
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		pageNum := i
		elements = append(elements, domain.Element{
			Category: "NarrativeText",
			Text:     content,
			Metadata: domain.ElementMetadata{PageNumber: &pageNum},
		})
	}

	return elements, nil
}
