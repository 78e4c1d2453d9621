// Package parsers selects a parser backend by file extension and
// exposes the set of supported document types.
package parsers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/parsers/docx"
	"github.com/doqa-labs/docq-cli/internal/parsers/html"
	"github.com/doqa-labs/docq-cli/internal/parsers/markdown"
	"github.com/doqa-labs/docq-cli/internal/parsers/pdf"
	"github.com/doqa-labs/docq-cli/internal/parsers/pptx"
	"github.com/doqa-labs/docq-cli/internal/parsers/text"
	"github.com/doqa-labs/docq-cli/internal/parsers/xlsx"
)

// Registry maps file extensions to parser backends.
type Registry struct {
	byExt map[string]driven.Parser
}

// NewRegistry builds a registry from the given parsers. Later parsers
// win on extension conflicts.
func NewRegistry(backends ...driven.Parser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Parser)}
	for _, p := range backends {
		for _, ext := range p.Extensions() {
			r.byExt[strings.ToLower(ext)] = p
		}
	}
	return r
}

// Default returns a registry with all built-in backends registered.
func Default() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		pptx.New(),
		xlsx.New(),
		text.New(),
		markdown.New(),
		html.New(),
	)
}

// ForPath returns the parser for the file's extension, or an
// ErrUnsupportedFileType error naming the extension.
func (r *Registry) ForPath(path string) (driven.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	return p, nil
}

// Supported reports whether the file's extension has a registered
// parser.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the sorted list of supported extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
