// Package text parses plain-text files into paragraph elements.
package text

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

var paragraphRegex = regexp.MustCompile(`\n\s*\n+`)

// Parser splits plain text into paragraph-sized narrative elements.
type Parser struct{}

// New creates a plain-text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt"}
}

// Parse splits the file on blank lines; each paragraph becomes one
// narrative element.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}

	var elements []domain.Element
	for _, para := range paragraphRegex.Split(string(data), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		elements = append(elements, domain.Element{
			Category: "NarrativeText",
			Text:     para,
		})
	}

	return elements, nil
}
