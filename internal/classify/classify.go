// Package classify inspects parsed elements and partitions them into
// the three retrievable groups: tables, images and narrative text.
package classify

import (
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

// Groups holds the disjoint element groups produced by Partition, in
// original element order within each group.
type Groups struct {
	Tables []domain.Element
	Images []domain.Element
	Texts  []domain.Element

	// Dropped counts elements that carried neither text nor an image
	// payload and were silently discarded.
	Dropped int
}

// Category returns the normalised category label for an element. The
// structured category field wins; elements without one fall back to
// their tagged kind label.
func Category(el domain.Element) string {
	if c := strings.TrimSpace(el.Category); c != "" {
		return strings.ToLower(c)
	}
	return string(el.Kind())
}

// Partition splits elements into disjoint table/image/text groups.
// Precedence: a category containing "table" wins; otherwise a category
// containing "image" or the presence of an image payload; otherwise
// non-empty text. A table rendered with an embedded thumbnail is a
// table for retrieval purposes. Elements matching none of the three
// are dropped.
func Partition(elements []domain.Element) Groups {
	var g Groups
	for _, el := range elements {
		cat := Category(el)
		switch {
		case strings.Contains(cat, "table"):
			g.Tables = append(g.Tables, el)
		case strings.Contains(cat, "image") || el.HasImagePayload():
			g.Images = append(g.Images, el)
		case strings.TrimSpace(el.Text) != "":
			g.Texts = append(g.Texts, el)
		default:
			g.Dropped++
		}
	}
	return g
}

// StampSource tags every element of a parse run with the source file's
// filename, filetype (extension without leading dot) and path. All
// downstream metadata assumes this stamping already happened.
func StampSource(elements []domain.Element, filename, filetype, filepath string) {
	for i := range elements {
		elements[i].Metadata.Filename = filename
		elements[i].Metadata.Filetype = filetype
		elements[i].Metadata.Filepath = filepath
	}
}
