package chunker

import (
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// Table format labels recorded in metadata.
const (
	tableFormatHTML = "html"
	tableFormatText = "text"
)

// descriptionMaxChars bounds derived table descriptions.
const descriptionMaxChars = 160

// descriptionLines is how many leading non-empty lines a table
// description keeps.
const descriptionLines = 3

// buildTables emits one chunk per table element, no merging. The HTML
// rendering is preferred as content; raw text is the fallback. Tables
// that strip to nothing are discarded.
func (b *Builder) buildTables(elements []domain.Element) []domain.Chunk {
	var chunks []domain.Chunk
	index := 1
	for _, el := range elements {
		content := el.TableHTML()
		format := tableFormatHTML
		if strings.TrimSpace(content) == "" {
			content = el.Text
			format = tableFormatText
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		c := newChunk(el, domain.ChunkTable, index, content, el.PageNumber())
		c.Metadata.TableFormat = format
		c.Metadata.Description = describeTable(el.Text)
		chunks = append(chunks, c)
		index++
	}
	return chunks
}

// describeTable derives a short description from the table's raw text:
// the first few non-empty lines, truncated. It is auxiliary metadata,
// not the embedded content; an empty result is fine.
func describeTable(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == descriptionLines {
			break
		}
	}
	desc := strings.Join(lines, " | ")
	if runes := []rune(desc); len(runes) > descriptionMaxChars {
		desc = string(runes[:descriptionMaxChars])
	}
	return desc
}
