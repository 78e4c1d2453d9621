package chunker

import (
	"fmt"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// fallbackImageDescription is used when an image carries no alt text
// or caption and its page is unknown.
const fallbackImageDescription = "Contains visual information related to document content."

// buildImages emits one chunk per image element. Content is a
// generated description; the binary payload is never embedded or
// stored. Only a presence flag and an optional path reference are
// kept.
func (b *Builder) buildImages(elements []domain.Element) []domain.Chunk {
	var chunks []domain.Chunk
	index := 1
	for _, el := range elements {
		content := describeImage(el)

		c := newChunk(el, domain.ChunkImage, index, content, el.PageNumber())
		c.Metadata.Description = content
		c.Metadata.HasImagePayload = el.HasImagePayload()
		c.Metadata.ImagePath = el.Metadata.ImagePath
		chunks = append(chunks, c)
		index++
	}
	return chunks
}

// describeImage derives the embedded description with the precedence
// alt text, then caption, then a synthesized fallback. It never fails;
// missing metadata degrades to the generic fallback so one bad element
// cannot abort a batch.
func describeImage(el domain.Element) string {
	if alt := strings.TrimSpace(el.Metadata.AltText); alt != "" {
		return alt
	}
	if cap := strings.TrimSpace(el.Metadata.Caption); cap != "" {
		return cap
	}
	if page := el.PageNumber(); page != nil {
		return fmt.Sprintf("Image content on page %d. %s", *page, fallbackImageDescription)
	}
	return "Image content. " + fallbackImageDescription
}
