package domain

import (
	"crypto/sha1" //nolint:gosec // identity digest, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkType distinguishes the three retrievable content shapes.
type ChunkType string

// Chunk types.
const (
	ChunkText  ChunkType = "text"
	ChunkTable ChunkType = "table"
	ChunkImage ChunkType = "image"
)

// Chunk is the retrievable unit of content, derived from one or more
// elements and indexed as a whole. Content is what gets embedded and
// matched against queries; for image chunks it is a generated
// description, never the raw payload.
type Chunk struct {
	Content  string        `json:"content"`
	Type     ChunkType     `json:"chunk_type"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata is the metadata record carried by every chunk.
// Type-specific fields are zero-valued for the other types.
type ChunkMetadata struct {
	// Source is the source file path ("unknown" if the parser could not
	// provide one).
	Source   string `json:"source"`
	Filename string `json:"filename"`
	Filetype string `json:"filetype"`

	// Type mirrors the chunk's type so stored entries can be
	// reconstructed from metadata alone.
	Type ChunkType `json:"type"`

	// PageNumber is best-effort; chunking may blur page boundaries and
	// nil is expected.
	PageNumber *int `json:"page_number,omitempty"`

	// ChunkIndex is the 1-based position within the chunk's type group
	// for its source, assigned per ingestion call.
	ChunkIndex int `json:"chunk_index"`

	// ChunkID is the deterministic identity, see NewChunkID.
	ChunkID string `json:"chunk_id"`

	// ContentHash is the sha256 digest of Content, recorded by the
	// indexer for deduplication and external-id derivation.
	ContentHash string `json:"content_hash,omitempty"`

	// HasOverlap is true for text chunks whose content carries an
	// overlap tail from the preceding chunk.
	HasOverlap bool `json:"has_overlap,omitempty"`

	// TableFormat is "html" or "text" for table chunks.
	TableFormat string `json:"table_format,omitempty"`

	// Description is a short derived description for table and image
	// chunks. Auxiliary signal only; it is not the embedded content.
	Description string `json:"description,omitempty"`

	// HasImagePayload and ImagePath record image payload presence for
	// image chunks. The payload itself is never stored.
	HasImagePayload bool   `json:"has_image_payload,omitempty"`
	ImagePath       string `json:"image_path,omitempty"`
}

// UnknownSource is the source placeholder used when a parser cannot
// report a file path.
const UnknownSource = "unknown"

// NewChunkID derives the deterministic chunk identity from the source
// path, chunk type, 1-based index and content. Identical inputs always
// yield the identical id, across runs and process restarts.
func NewChunkID(source string, chunkType ChunkType, index int, content string) string {
	if source == "" {
		source = UnknownSource
	}
	raw := fmt.Sprintf("%s::%s::%d::%s", source, chunkType, index, content)
	sum := sha1.Sum([]byte(raw)) //nolint:gosec // identity digest
	return hex.EncodeToString(sum[:])
}

// HashContent returns the sha256 digest of a chunk's content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ExternalID derives the identity used to address an entry inside the
// vector index. It combines source and content hash so that identical
// content re-embedded from the same source collapses to one entry while
// the same content from two different files stays distinct.
func ExternalID(source, contentHash string) string {
	return source + "::" + contentHash
}
