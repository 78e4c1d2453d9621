// Package docx parses Word documents into title, narrative and table
// elements.
package docx

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts structured content from .docx files.
type Parser struct{}

// New creates a DOCX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".docx"}
}

// Parse reads the document body in order: paragraphs with heading
// styles become title elements, other paragraphs narrative elements,
// and tables become table elements with a generated HTML rendering.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing docx: %w", err)
	}

	var elements []domain.Element
	for _, item := range doc.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch it := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(it)
			if text == "" {
				continue
			}
			category := "NarrativeText"
			if isHeading(it) {
				category = "Title"
			}
			elements = append(elements, domain.Element{Category: category, Text: text})

		case *docx.Table:
			rows := tableRows(it)
			if len(rows) == 0 {
				continue
			}
			elements = append(elements, domain.Element{
				Category: "Table",
				Text:     rowsAsText(rows),
				Metadata: domain.ElementMetadata{TextAsHTML: rowsAsHTML(rows)},
			})
		}
	}

	return elements, nil
}

// isHeading reports whether the paragraph carries a heading style.
func isHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(para.Properties.Style.Val)
	return strings.HasPrefix(style, "heading") || strings.HasPrefix(style, "title")
}

// paragraphText concatenates the text runs of a paragraph.
func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// tableRows flattens a docx table into rows of cell strings.
func tableRows(tbl *docx.Table) [][]string {
	var rows [][]string
	for _, tr := range tbl.TableRows {
		var cells []string
		for _, tc := range tr.TableCells {
			var cell strings.Builder
			for _, para := range tc.Paragraphs {
				if text := paragraphText(para); text != "" {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
					cell.WriteString(text)
				}
			}
			cells = append(cells, cell.String())
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// rowsAsText renders rows as pipe-separated plain text, one line per row.
func rowsAsText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}

// rowsAsHTML renders rows as a minimal HTML table.
func rowsAsHTML(rows [][]string) string {
	var buf strings.Builder
	buf.WriteString("<table>")
	for _, row := range rows {
		buf.WriteString("<tr>")
		for _, cell := range row {
			buf.WriteString("<td>")
			buf.WriteString(htmlEscape(cell))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</table>")
	return buf.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
