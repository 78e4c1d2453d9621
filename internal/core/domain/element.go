package domain

import "strings"

// ElementKind is the normalised classification of a parsed element.
type ElementKind string

// Known element kinds. Parsers that encounter content they cannot
// classify use ElementOther and keep the raw label in Category.
const (
	ElementTitle ElementKind = "title"
	ElementText  ElementKind = "text"
	ElementTable ElementKind = "table"
	ElementImage ElementKind = "image"
	ElementOther ElementKind = "other"
)

// Element is one parsed unit of document content (paragraph, title,
// table, image) produced by a parser backend. Elements are transient:
// they live for one ingestion call and are only persisted through the
// optional element cache.
type Element struct {
	// Category is the raw type label as reported by the parser backend.
	Category string `json:"category"`

	// Text is the raw textual content. May be empty for pure-image elements.
	Text string `json:"text"`

	// Metadata carries the optional per-element fields.
	Metadata ElementMetadata `json:"metadata"`
}

// ElementMetadata is an explicit optional-field record. All fields are
// nullable or zero-valued when absent; accessors never fail.
type ElementMetadata struct {
	// PageNumber is the 1-based page the element came from, if known.
	PageNumber *int `json:"page_number,omitempty"`

	// Filename, Filetype and Filepath identify the source file. They are
	// stamped onto every element of a parse run before any further
	// processing; all downstream metadata assumes this happened.
	Filename string `json:"filename,omitempty"`
	Filetype string `json:"filetype,omitempty"`
	Filepath string `json:"filepath,omitempty"`

	// TextAsHTML is an HTML rendering of a table element, if available.
	TextAsHTML string `json:"text_as_html,omitempty"`

	// ImageBase64 holds an embedded image payload. It is never copied
	// into a chunk; only its presence is recorded.
	ImageBase64 string `json:"image_base64,omitempty"`

	// ImagePath is a filesystem reference to an extracted image.
	ImagePath string `json:"image_path,omitempty"`

	// AltText and Caption are optional image descriptions.
	AltText string `json:"alt_text,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Kind returns the normalised kind for the element's raw category label.
// Unrecognised labels map to ElementOther; the raw label stays available
// in Category.
func (e Element) Kind() ElementKind {
	c := strings.ToLower(strings.TrimSpace(e.Category))
	switch {
	case strings.Contains(c, "table"):
		return ElementTable
	case strings.Contains(c, "image") || strings.Contains(c, "figure") || strings.Contains(c, "picture"):
		return ElementImage
	case strings.Contains(c, "title") || strings.Contains(c, "heading") || strings.Contains(c, "header"):
		return ElementTitle
	case c == "":
		return ElementOther
	case strings.Contains(c, "text") || strings.Contains(c, "narrative") || strings.Contains(c, "paragraph") || strings.Contains(c, "list"):
		return ElementText
	default:
		return ElementOther
	}
}

// HasImagePayload reports whether the element carries an image payload,
// either embedded or as a path reference.
func (e Element) HasImagePayload() bool {
	return e.Metadata.ImageBase64 != "" || e.Metadata.ImagePath != ""
}

// PageNumber returns the element's page number, or nil if unknown.
func (e Element) PageNumber() *int {
	return e.Metadata.PageNumber
}

// TableHTML returns the HTML rendering of a table element, or "" if
// the parser did not produce one.
func (e Element) TableHTML() string {
	return e.Metadata.TextAsHTML
}
