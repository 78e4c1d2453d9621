// Package cache provides the per-source-file element cache. One JSON
// artifact is kept beside each source file; a valid artifact lets
// re-ingestion skip the parser entirely.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure FileCache implements the interface.
var _ driven.ElementCache = (*FileCache)(nil)

// FormatVersion is the cache artifact schema version. A version
// mismatch is treated as a cache miss so stale artifacts cannot
// desynchronise from a newer Element shape.
const FormatVersion = 1

// Suffix distinguishes cache artifacts from their source files.
const Suffix = ".elements.json"

// envelope is the on-disk artifact shape.
type envelope struct {
	Version  int              `json:"version"`
	Source   string           `json:"source"`
	Elements []domain.Element `json:"elements"`
}

// FileCache stores element snapshots beside their source files.
type FileCache struct{}

// New creates a file-based element cache.
func New() *FileCache {
	return &FileCache{}
}

// PathFor derives the cache artifact path for a source file: same
// path, distinguishing suffix.
func PathFor(sourcePath string) string {
	return sourcePath + Suffix
}

// Load returns the cached elements for sourcePath. Absent, corrupt and
// version-mismatched artifacts are all misses, never errors; corrupt
// artifacts are logged and fall through to re-parsing.
func (c *FileCache) Load(sourcePath string) ([]domain.Element, bool) {
	data, err := os.ReadFile(PathFor(sourcePath))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cache read failed for %s: %v", sourcePath, err)
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn("cache corrupted for %s, re-parsing: %v", sourcePath, err)
		return nil, false
	}
	if env.Version != FormatVersion {
		logger.Debug("cache version %d != %d for %s, re-parsing", env.Version, FormatVersion, sourcePath)
		return nil, false
	}

	logger.Debug("cache hit: %s (%d elements)", sourcePath, len(env.Elements))
	return env.Elements, true
}

// Store persists the elements for sourcePath. Write failures are
// logged, not propagated; the cache is an optimisation.
func (c *FileCache) Store(sourcePath string, elements []domain.Element) {
	env := envelope{Version: FormatVersion, Source: sourcePath, Elements: elements}
	data, err := json.Marshal(env)
	if err != nil {
		logger.Warn("cache encode failed for %s: %v", sourcePath, err)
		return
	}
	if err := os.WriteFile(PathFor(sourcePath), data, 0600); err != nil {
		logger.Warn("cache write failed for %s: %v", sourcePath, err)
	}
}

// Invalidate removes the cache artifact for sourcePath. A missing
// artifact is not an error.
func (c *FileCache) Invalidate(sourcePath string) error {
	err := os.Remove(PathFor(sourcePath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache artifact: %w", err)
	}
	return nil
}
