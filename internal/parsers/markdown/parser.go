// Package markdown parses Markdown files through the goldmark AST:
// headings become title elements, other blocks narrative elements.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser converts Markdown into elements.
type Parser struct {
	md goldmark.Markdown
}

// New creates a Markdown parser.
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse walks the top-level AST blocks in document order.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading markdown file: %w", err)
	}

	doc := p.md.Parser().Parse(gmtext.NewReader(src))

	var elements []domain.Element
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(extractText(node, src)))
			if title == "" {
				continue
			}
			elements = append(elements, domain.Element{Category: "Title", Text: title})
		default:
			body := strings.TrimSpace(string(extractText(n, src)))
			if body == "" {
				continue
			}
			elements = append(elements, domain.Element{Category: "NarrativeText", Text: body})
		}
	}

	return elements, nil
}

// extractText gets the text content of a goldmark AST node. Blocks
// with source lines read them directly; container nodes recurse into
// their children.
func extractText(n ast.Node, src []byte) []byte {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Value(src)
	}
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return buf.Bytes()
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(extractText(c, src))
	}
	return buf.Bytes()
}
