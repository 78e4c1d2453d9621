// Package xlsx parses spreadsheets into one table element per sheet.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts sheet contents from .xlsx workbooks.
type Parser struct{}

// New creates an XLSX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".xlsx"}
}

// Parse emits one table element per non-empty sheet, with an HTML
// rendering and a plain-text fallback. Sheets that fail to read are
// logged and skipped.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var elements []domain.Element
	for i, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("sheet %q of %s: %v", sheet, path, err)
			continue
		}
		rows = trimEmptyRows(rows)
		if len(rows) == 0 {
			continue
		}

		pageNum := i + 1
		elements = append(elements, domain.Element{
			Category: "Table",
			Text:     sheet + "\n" + rowsAsText(rows),
			Metadata: domain.ElementMetadata{
				PageNumber: &pageNum,
				TextAsHTML: rowsAsHTML(rows),
			},
		})
	}

	return elements, nil
}

// trimEmptyRows drops rows whose cells are all blank.
func trimEmptyRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

// rowsAsText renders rows pipe-separated, one line per row.
func rowsAsText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}

// rowsAsHTML renders rows as a minimal HTML table. The first row is
// treated as the header.
func rowsAsHTML(rows [][]string) string {
	var buf strings.Builder
	buf.WriteString("<table>")
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		buf.WriteString("<tr>")
		for _, cell := range row {
			buf.WriteString("<" + tag + ">")
			buf.WriteString(escape(cell))
			buf.WriteString("</" + tag + ">")
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</table>")
	return buf.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
