// Package html parses HTML files into elements: headings become
// titles, paragraphs narrative text, tables keep their original HTML,
// and images carry their alt text.
package html

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts document content from HTML files.
type Parser struct{}

// New creates an HTML parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".html", ".htm"}
}

// Parse walks the body in document order.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening html file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var elements []domain.Element
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, table, img").Each(func(_ int, s *goquery.Selection) {
		// Skip nested matches inside tables; the table element owns them.
		if s.ParentsFiltered("table").Length() > 0 {
			return
		}

		switch goquery.NodeName(s) {
		case "table":
			text := strings.TrimSpace(s.Text())
			rendered, err := goquery.OuterHtml(s)
			if err != nil {
				rendered = ""
			}
			if text == "" && rendered == "" {
				return
			}
			elements = append(elements, domain.Element{
				Category: "Table",
				Text:     text,
				Metadata: domain.ElementMetadata{TextAsHTML: strings.TrimSpace(rendered)},
			})

		case "img":
			src, _ := s.Attr("src")
			alt, _ := s.Attr("alt")
			elements = append(elements, domain.Element{
				Category: "Image",
				Metadata: domain.ElementMetadata{
					AltText:   strings.TrimSpace(alt),
					ImagePath: strings.TrimSpace(src),
				},
			})

		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := strings.TrimSpace(s.Text()); text != "" {
				elements = append(elements, domain.Element{Category: "Title", Text: text})
			}

		default:
			if text := strings.TrimSpace(s.Text()); text != "" {
				elements = append(elements, domain.Element{Category: "NarrativeText", Text: text})
			}
		}
	})

	return elements, nil
}
