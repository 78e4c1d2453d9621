// Package chunker converts classified element groups into retrievable
// chunks: merged narrative text bounded by title sections, one chunk
// per table, one chunk per image.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/doqa-labs/docq-cli/internal/classify"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// Default chunking parameters.
const (
	// DefaultMaxChars is the hard cap on chunk content size.
	DefaultMaxChars = 2000

	// DefaultNewAfterChars forces a new chunk after this many
	// characters even mid-section.
	DefaultNewAfterChars = 1500

	// DefaultCombineUnderChars merges leading sections shorter than
	// this into the following section.
	DefaultCombineUnderChars = 200

	// DefaultOverlapChars is the tail carried from one text chunk into
	// the next.
	DefaultOverlapChars = 100
)

// MinChunkChars is the minimum stripped content length. Shorter chunks
// carry no retrievable signal and are discarded, not stored.
const MinChunkChars = 10

// OverlapMarker joins an overlap tail to the following chunk's content.
// Its presence is what sets the has_overlap metadata flag.
const OverlapMarker = "\n[...]\n"

// Builder produces chunks from one file's element groups.
type Builder struct {
	maxChars          int
	newAfterChars     int
	combineUnderChars int
	overlapChars      int
}

// Option configures the builder.
type Option func(*Builder)

// WithMaxChars sets the hard cap on chunk size.
func WithMaxChars(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxChars = n
		}
	}
}

// WithNewAfterChars sets the soft boundary that forces a new chunk.
func WithNewAfterChars(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.newAfterChars = n
		}
	}
}

// WithCombineUnderChars sets the short-section combine threshold.
func WithCombineUnderChars(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.combineUnderChars = n
		}
	}
}

// WithOverlapChars sets the overlap tail size.
func WithOverlapChars(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.overlapChars = n
		}
	}
}

// New creates a builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{
		maxChars:          DefaultMaxChars,
		newAfterChars:     DefaultNewAfterChars,
		combineUnderChars: DefaultCombineUnderChars,
		overlapChars:      DefaultOverlapChars,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.newAfterChars > b.maxChars {
		b.newAfterChars = b.maxChars
	}
	if b.overlapChars >= b.newAfterChars {
		b.overlapChars = b.newAfterChars / 4
	}
	return b
}

// Build converts the element groups of one source file into chunks.
// Within each group chunk_index is a 1-based running counter in element
// order; it resets per group per call.
func (b *Builder) Build(groups classify.Groups) []domain.Chunk {
	var chunks []domain.Chunk
	chunks = append(chunks, b.buildText(groups.Texts)...)
	chunks = append(chunks, b.buildTables(groups.Tables)...)
	chunks = append(chunks, b.buildImages(groups.Images)...)
	return chunks
}

// sourceOf returns the stamped source path, or the unknown placeholder.
func sourceOf(el domain.Element) string {
	if el.Metadata.Filepath != "" {
		return el.Metadata.Filepath
	}
	return domain.UnknownSource
}

// newChunk assembles a chunk with its deterministic identity and the
// source metadata common to all chunk types.
func newChunk(el domain.Element, chunkType domain.ChunkType, index int, content string, page *int) domain.Chunk {
	source := sourceOf(el)
	return domain.Chunk{
		Content: content,
		Type:    chunkType,
		Metadata: domain.ChunkMetadata{
			Source:     source,
			Filename:   el.Metadata.Filename,
			Filetype:   el.Metadata.Filetype,
			Type:       chunkType,
			PageNumber: page,
			ChunkIndex: index,
			ChunkID:    domain.NewChunkID(source, chunkType, index, content),
		},
	}
}

// tooShort reports whether stripped content falls under the minimum
// retrievable length, counted in runes.
func tooShort(content string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(content)) < MinChunkChars
}
