package driven

import "github.com/doqa-labs/docq-cli/internal/core/domain"

// ElementCache is the per-source-file cache of parsed elements,
// consulted before re-parsing. A miss (absent, corrupt, or written by
// an older format version) is never an error.
type ElementCache interface {
	// Load returns the cached elements for the source file, with ok
	// false on any kind of miss.
	Load(sourcePath string) (elements []domain.Element, ok bool)

	// Store persists the elements for the source file. Failures are
	// logged by the implementation and do not fail ingestion.
	Store(sourcePath string, elements []domain.Element)

	// Invalidate removes the cache artifact for the source file.
	Invalidate(sourcePath string) error
}
