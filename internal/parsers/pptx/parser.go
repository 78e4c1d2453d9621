// Package pptx parses PowerPoint decks into per-slide elements using
// the OOXML structure directly.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts slide text from .pptx files. The slide number is
// recorded as the page number.
type Parser struct{}

// New creates a PPTX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pptx"}
}

// Parse walks ppt/slides/slideN.xml in slide order. The first text
// shape of a slide becomes a title element, remaining shapes narrative
// elements; embedded pictures yield image elements with payload
// presence only.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Element, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening pptx: %w", err)
	}
	defer reader.Close()

	slides := slideFiles(&reader.Reader)

	var elements []domain.Element
	for i, file := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening slide %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading slide %s: %w", file.Name, err)
		}

		pageNum := i + 1
		shapes, pictures := parseSlideXML(content)
		for j, shape := range shapes {
			category := "NarrativeText"
			if j == 0 {
				category = "Title"
			}
			page := pageNum
			elements = append(elements, domain.Element{
				Category: category,
				Text:     shape,
				Metadata: domain.ElementMetadata{PageNumber: &page},
			})
		}
		for k := 0; k < pictures; k++ {
			page := pageNum
			elements = append(elements, domain.Element{
				Category: "Image",
				Metadata: domain.ElementMetadata{
					PageNumber: &page,
					ImagePath:  fmt.Sprintf("%s#picture-%d", file.Name, k+1),
				},
			})
		}
	}

	return elements, nil
}

// slideFiles returns the slide entries of the archive in slide order.
func slideFiles(reader *zip.Reader) []*zip.File {
	var slides []*zip.File
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})
	return slides
}

// slideNumber extracts N from ppt/slides/slideN.xml.
func slideNumber(name string) int {
	var n int
	fmt.Sscanf(name, "ppt/slides/slide%d.xml", &n)
	return n
}

// parseSlideXML streams the slide XML and returns the text of each
// shape plus the number of embedded pictures. Shape boundaries are the
// txBody elements; text runs are the a:t elements inside them.
func parseSlideXML(content []byte) (shapes []string, pictures int) {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))

	var (
		current strings.Builder
		inShape bool
		inText  bool
	)

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			shapes = append(shapes, text)
		}
		current.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "txBody":
				inShape = true
			case "t":
				inText = inShape
			case "pic":
				pictures++
			case "p":
				if inShape && current.Len() > 0 {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "txBody":
				flush()
				inShape = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return shapes, pictures
}
