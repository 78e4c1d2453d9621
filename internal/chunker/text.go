package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// section is a run of narrative elements under one title boundary.
type section struct {
	parts []string
	page  *int // page of the first contributing element
	el    domain.Element
}

func (s *section) length() int {
	n := 0
	for _, p := range s.parts {
		n += utf8.RuneCountInString(p)
	}
	return n
}

// buildText runs by-title semantic chunking over the text group:
// consecutive narrative elements merge into chunks bounded by maxChars,
// a new chunk is forced after newAfterChars even mid-section, and
// short leading sections are combined into the following one. Chunks
// shorter than MinChunkChars after stripping are discarded.
func (b *Builder) buildText(elements []domain.Element) []domain.Chunk {
	if len(elements) == 0 {
		return nil
	}

	sections := b.splitSections(elements)
	sections = b.combineShort(sections)

	var (
		chunks  []domain.Chunk
		index   = 1
		overlap string
	)

	emit := func(sec *section, content string) {
		hasOverlap := false
		if overlap != "" {
			content = overlap + OverlapMarker + content
			hasOverlap = true
		}
		// Prepare the tail for the next chunk before the length filter:
		// a discarded fragment still ends the previous chunk. The tail
		// is cut on rune boundaries.
		overlap = ""
		if b.overlapChars > 0 {
			if runes := []rune(content); len(runes) > b.overlapChars {
				overlap = string(runes[len(runes)-b.overlapChars:])
			}
		}
		if tooShort(content) {
			return
		}
		c := newChunk(sec.el, domain.ChunkText, index, content, sec.page)
		c.Metadata.HasOverlap = hasOverlap || strings.Contains(content, OverlapMarker)
		chunks = append(chunks, c)
		index++
	}

	// All thresholds count runes, so a multi-byte rune is never cut in
	// half at a split point. bufRunes tracks the rune length of buf.
	for i := range sections {
		sec := &sections[i]
		var buf strings.Builder
		bufRunes := 0
		for _, part := range sec.parts {
			runes := []rune(part)
			// Hard-split parts that exceed the cap on their own.
			for len(runes) > b.maxChars {
				if bufRunes > 0 {
					emit(sec, buf.String())
					buf.Reset()
					bufRunes = 0
				}
				emit(sec, string(runes[:b.maxChars]))
				runes = runes[b.maxChars:]
			}
			if bufRunes > 0 && bufRunes+len(runes)+2 > b.maxChars {
				emit(sec, buf.String())
				buf.Reset()
				bufRunes = 0
			}
			if bufRunes > 0 {
				buf.WriteString("\n\n")
				bufRunes += 2
			}
			buf.WriteString(string(runes))
			bufRunes += len(runes)
			if bufRunes >= b.newAfterChars {
				emit(sec, buf.String())
				buf.Reset()
				bufRunes = 0
			}
		}
		if bufRunes > 0 {
			emit(sec, buf.String())
		}
	}

	return chunks
}

// splitSections groups elements into sections bounded by titles. The
// title text itself leads its section's content.
func (b *Builder) splitSections(elements []domain.Element) []section {
	var sections []section
	current := section{}

	flush := func() {
		if len(current.parts) > 0 {
			sections = append(sections, current)
		}
	}

	for _, el := range elements {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}
		if el.Kind() == domain.ElementTitle {
			flush()
			current = section{el: el, page: el.PageNumber(), parts: []string{text}}
			continue
		}
		if len(current.parts) == 0 {
			current.el = el
			current.page = el.PageNumber()
		}
		current.parts = append(current.parts, text)
	}
	flush()
	return sections
}

// combineShort merges sections shorter than the combine threshold into
// the section that follows them. The page of the merged pair is the
// earlier section's.
func (b *Builder) combineShort(sections []section) []section {
	if b.combineUnderChars <= 0 || len(sections) < 2 {
		return sections
	}
	var out []section
	var carry *section
	for i := range sections {
		sec := sections[i]
		if carry != nil {
			sec.parts = append(carry.parts, sec.parts...)
			sec.el = carry.el
			sec.page = carry.page
			carry = nil
		}
		if sec.length() < b.combineUnderChars && i < len(sections)-1 {
			carry = &sec
			continue
		}
		out = append(out, sec)
	}
	if carry != nil {
		out = append(out, *carry)
	}
	return out
}
