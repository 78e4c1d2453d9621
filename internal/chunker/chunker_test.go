package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/classify"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

func textEl(category, text string, page ...*int) domain.Element {
	var pageNum *int
	if len(page) > 0 {
		pageNum = page[0]
	}
	return domain.Element{
		Category: category,
		Text:     text,
		Metadata: domain.ElementMetadata{
			PageNumber: pageNum,
			Filename:   "report.pdf",
			Filetype:   "pdf",
			Filepath:   "/docs/report.pdf",
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b := New()
		assert.Equal(t, DefaultMaxChars, b.maxChars)
		assert.Equal(t, DefaultNewAfterChars, b.newAfterChars)
		assert.Equal(t, DefaultCombineUnderChars, b.combineUnderChars)
		assert.Equal(t, DefaultOverlapChars, b.overlapChars)
	})

	t.Run("overlap clamped below soft boundary", func(t *testing.T) {
		b := New(WithNewAfterChars(100), WithOverlapChars(200))
		assert.Less(t, b.overlapChars, 100)
	})
}

func TestBuildText(t *testing.T) {
	t.Run("merges consecutive narrative elements", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithOverlapChars(0))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("NarrativeText", "First paragraph of prose.", nil),
			textEl("NarrativeText", "Second paragraph of prose.", nil),
		}}

		chunks := b.Build(groups)
		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0].Content, "First paragraph")
		assert.Contains(t, chunks[0].Content, "Second paragraph")
		assert.Equal(t, domain.ChunkText, chunks[0].Type)
		assert.Equal(t, 1, chunks[0].Metadata.ChunkIndex)
	})

	t.Run("title opens a new section", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithNewAfterChars(60), WithMaxChars(80), WithOverlapChars(0))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("Title", "Chapter One"),
			textEl("NarrativeText", strings.Repeat("alpha ", 12)),
			textEl("Title", "Chapter Two"),
			textEl("NarrativeText", strings.Repeat("omega ", 12)),
		}}

		chunks := b.Build(groups)
		require.GreaterOrEqual(t, len(chunks), 2)
		assert.Contains(t, chunks[0].Content, "Chapter One")
		var second string
		for _, c := range chunks[1:] {
			if strings.Contains(c.Content, "Chapter Two") {
				second = c.Content
			}
		}
		require.NotEmpty(t, second)
		assert.NotContains(t, second, "alpha")
	})

	t.Run("forces new chunk after soft boundary", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithNewAfterChars(50), WithMaxChars(100), WithOverlapChars(0))
		var elements []domain.Element
		for i := 0; i < 6; i++ {
			elements = append(elements, textEl("NarrativeText", strings.Repeat("word ", 6)))
		}

		chunks := b.Build(classify.Groups{Texts: elements})
		assert.Greater(t, len(chunks), 1)
		for i, c := range chunks {
			assert.Equal(t, i+1, c.Metadata.ChunkIndex, "1-based running index")
		}
	})

	t.Run("combines short leading section into the following", func(t *testing.T) {
		b := New(WithCombineUnderChars(50), WithOverlapChars(0))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("Title", "Intro"),
			textEl("Title", "Details"),
			textEl("NarrativeText", strings.Repeat("substantial body text ", 5)),
		}}

		chunks := b.Build(groups)
		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0].Content, "Intro")
		assert.Contains(t, chunks[0].Content, "Details")
	})

	t.Run("minimum length boundary", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithOverlapChars(0))

		nine := b.Build(classify.Groups{Texts: []domain.Element{textEl("NarrativeText", "123456789")}})
		assert.Empty(t, nine, "9 stripped chars must be discarded")

		ten := b.Build(classify.Groups{Texts: []domain.Element{textEl("NarrativeText", "1234567890")}})
		assert.Len(t, ten, 1, "10 stripped chars must be kept")
	})

	t.Run("overlap marker sets has_overlap", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithNewAfterChars(40), WithMaxChars(80), WithOverlapChars(10))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("NarrativeText", strings.Repeat("lorem ipsum dolor ", 10)),
		}}

		chunks := b.Build(groups)
		require.Greater(t, len(chunks), 1)
		assert.False(t, chunks[0].Metadata.HasOverlap)
		for _, c := range chunks[1:] {
			assert.True(t, c.Metadata.HasOverlap)
			assert.Contains(t, c.Content, OverlapMarker)
		}
	})

	t.Run("hard split cuts on rune boundaries", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithOverlapChars(0), WithNewAfterChars(21), WithMaxChars(21))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("NarrativeText", strings.Repeat("é", 40)),
		}}

		chunks := b.Build(groups)
		require.Len(t, chunks, 2)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c.Content), "split must not cut a rune in half")
		}
		assert.Equal(t, 21, utf8.RuneCountInString(chunks[0].Content))
		assert.Equal(t, 19, utf8.RuneCountInString(chunks[1].Content))
	})

	t.Run("overlap tail cuts on rune boundaries", func(t *testing.T) {
		b := New(WithCombineUnderChars(0), WithNewAfterChars(20), WithMaxChars(40), WithOverlapChars(3))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("NarrativeText", strings.Repeat("日本語テキスト処理", 5)),
		}}

		chunks := b.Build(groups)
		require.Len(t, chunks, 2)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c.Content))
		}
		tail := []rune(chunks[0].Content)
		want := string(tail[len(tail)-3:]) + OverlapMarker
		assert.True(t, strings.HasPrefix(chunks[1].Content, want))
	})

	t.Run("page number is best effort", func(t *testing.T) {
		page := 2
		b := New(WithCombineUnderChars(0), WithOverlapChars(0))
		groups := classify.Groups{Texts: []domain.Element{
			textEl("NarrativeText", "Text that lives on page two of the file.", &page),
		}}

		chunks := b.Build(groups)
		require.Len(t, chunks, 1)
		require.NotNil(t, chunks[0].Metadata.PageNumber)
		assert.Equal(t, 2, *chunks[0].Metadata.PageNumber)
	})
}

func TestBuildTables(t *testing.T) {
	t.Run("prefers html rendering", func(t *testing.T) {
		el := textEl("Table", "h1 h2\nv1 v2")
		el.Metadata.TextAsHTML = "<table><tr><td>v1</td></tr></table>"

		chunks := New().Build(classify.Groups{Tables: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.Equal(t, el.Metadata.TextAsHTML, chunks[0].Content)
		assert.Equal(t, "html", chunks[0].Metadata.TableFormat)
		assert.Contains(t, chunks[0].Metadata.Description, "h1 h2")
	})

	t.Run("falls back to raw text", func(t *testing.T) {
		el := textEl("Table", "quarter revenue\nQ1 100")

		chunks := New().Build(classify.Groups{Tables: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.Equal(t, "quarter revenue\nQ1 100", chunks[0].Content)
		assert.Equal(t, "text", chunks[0].Metadata.TableFormat)
	})

	t.Run("discards empty tables", func(t *testing.T) {
		el := textEl("Table", "   \n  ")
		chunks := New().Build(classify.Groups{Tables: []domain.Element{el}})
		assert.Empty(t, chunks)
	})

	t.Run("description truncated on rune boundaries", func(t *testing.T) {
		el := textEl("Table", strings.Repeat("ü", 200))

		chunks := New().Build(classify.Groups{Tables: []domain.Element{el}})
		require.Len(t, chunks, 1)
		desc := chunks[0].Metadata.Description
		assert.True(t, utf8.ValidString(desc))
		assert.Equal(t, descriptionMaxChars, utf8.RuneCountInString(desc))
	})

	t.Run("one chunk per table, no merging", func(t *testing.T) {
		a := textEl("Table", "table one data")
		b := textEl("Table", "table two data")
		chunks := New().Build(classify.Groups{Tables: []domain.Element{a, b}})
		require.Len(t, chunks, 2)
		assert.Equal(t, 1, chunks[0].Metadata.ChunkIndex)
		assert.Equal(t, 2, chunks[1].Metadata.ChunkIndex)
	})
}

func TestBuildImages(t *testing.T) {
	t.Run("alt text wins", func(t *testing.T) {
		el := textEl("Image", "")
		el.Metadata.AltText = "Architecture diagram"
		el.Metadata.Caption = "Figure 1"

		chunks := New().Build(classify.Groups{Images: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.Equal(t, "Architecture diagram", chunks[0].Content)
	})

	t.Run("caption next", func(t *testing.T) {
		el := textEl("Image", "")
		el.Metadata.Caption = "Figure 1: throughput"

		chunks := New().Build(classify.Groups{Images: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.Equal(t, "Figure 1: throughput", chunks[0].Content)
	})

	t.Run("fallback with page", func(t *testing.T) {
		page := 4
		el := textEl("Image", "", &page)

		chunks := New().Build(classify.Groups{Images: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.Equal(t, "Image content on page 4. Contains visual information related to document content.", chunks[0].Content)
	})

	t.Run("fallback without page omits the page clause", func(t *testing.T) {
		el := textEl("Image", "")
		chunks := New().Build(classify.Groups{Images: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.NotContains(t, chunks[0].Content, "page")
	})

	t.Run("payload never embedded", func(t *testing.T) {
		payload := strings.Repeat("aGVsbG8gd29ybGQ=", 4)
		el := textEl("Image", "")
		el.Metadata.ImageBase64 = payload
		el.Metadata.ImagePath = "/tmp/extracted/fig.png"

		chunks := New().Build(classify.Groups{Images: []domain.Element{el}})
		require.Len(t, chunks, 1)
		assert.NotContains(t, chunks[0].Content, payload)
		assert.True(t, chunks[0].Metadata.HasImagePayload)
		assert.Equal(t, "/tmp/extracted/fig.png", chunks[0].Metadata.ImagePath)
	})
}

func TestChunkIDDeterminism(t *testing.T) {
	groups := classify.Groups{Texts: []domain.Element{
		textEl("NarrativeText", "Deterministic identity input text."),
	}}

	first := New().Build(groups)
	second := New().Build(groups)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Metadata.ChunkID, second[0].Metadata.ChunkID)

	// Direct check against the derivation function.
	want := domain.NewChunkID("/docs/report.pdf", domain.ChunkText, 1, first[0].Content)
	assert.Equal(t, want, first[0].Metadata.ChunkID)

	// Any input change changes the id.
	other := domain.NewChunkID("/docs/report.pdf", domain.ChunkText, 2, first[0].Content)
	assert.NotEqual(t, want, other)
}
