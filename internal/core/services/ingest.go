package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/chunker"
	"github.com/doqa-labs/docq-cli/internal/classify"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// ParserRegistry selects a parser backend by file path.
type ParserRegistry interface {
	ForPath(path string) (driven.Parser, error)
	Supported(path string) bool
}

// IngestService turns source files into indexed chunks.
type IngestService struct {
	registry ParserRegistry
	cache    driven.ElementCache
	builder  *chunker.Builder
	indexer  *Indexer
	store    driven.VectorStore
}

// NewIngestService creates an ingest service. The cache is optional;
// nil disables element caching.
func NewIngestService(
	registry ParserRegistry,
	cache driven.ElementCache,
	builder *chunker.Builder,
	indexer *Indexer,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		registry: registry,
		cache:    cache,
		builder:  builder,
		indexer:  indexer,
		store:    store,
	}
}

// IngestFile parses (or loads from cache), chunks and indexes one
// file. Returns the number of chunks indexed.
func (s *IngestService) IngestFile(ctx context.Context, path string) (int, error) {
	logger.Section("Ingest " + filepath.Base(path))

	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving path: %w", err)
	}

	elements, err := s.elements(ctx, absPath)
	if err != nil {
		return 0, err
	}
	if len(elements) == 0 {
		logger.Info("No content extracted from %s", filepath.Base(path))
		return 0, nil
	}

	groups := classify.Partition(elements)
	logger.Debug("Classified %d texts, %d tables, %d images (%d dropped)",
		len(groups.Texts), len(groups.Tables), len(groups.Images), groups.Dropped)

	chunks := s.builder.Build(groups)
	if len(chunks) == 0 {
		logger.Info("No chunks produced for %s", filepath.Base(path))
		return 0, nil
	}

	count, err := s.indexer.Index(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("ingesting %s: %w", filepath.Base(path), err)
	}
	return count, nil
}

// elements loads parsed elements from the cache or parses the file,
// stamping source identity either way.
func (s *IngestService) elements(ctx context.Context, absPath string) ([]domain.Element, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Load(absPath); ok {
			logger.Debug("Element cache hit for %s", filepath.Base(absPath))
			return cached, nil
		}
	}

	parser, err := s.registry.ForPath(absPath)
	if err != nil {
		return nil, err
	}

	elements, err := parser.Parse(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(absPath), err)
	}

	filename := filepath.Base(absPath)
	filetype := strings.TrimPrefix(strings.ToLower(filepath.Ext(absPath)), ".")
	classify.StampSource(elements, filename, filetype, absPath)

	if s.cache != nil {
		s.cache.Store(absPath, elements)
	}
	return elements, nil
}

// IngestDirectory walks dir, skips hidden files and unsupported
// extensions, and ingests each remaining file. Parse failures are
// counted and logged; they do not abort the batch.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (domain.IngestStats, error) {
	var stats domain.IngestStats

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !s.registry.Supported(path) {
			stats.Skipped++
			return nil
		}

		count, err := s.IngestFile(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			stats.Failed++
			return nil
		}
		stats.Processed++
		stats.Chunks += count
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walking %s: %w", dir, err)
	}

	logger.Info("Ingested %d file(s), %d chunk(s); skipped %d, failed %d",
		stats.Processed, stats.Chunks, stats.Skipped, stats.Failed)
	return stats, nil
}

// DeleteDocument removes every indexed chunk for the filename.
// Deleting a filename that was never indexed is a no-op.
func (s *IngestService) DeleteDocument(ctx context.Context, filename string) (int, error) {
	ids, err := s.store.IDsByFilename(ctx, filename)
	if err != nil {
		return 0, fmt.Errorf("looking up %s: %w", filename, err)
	}
	if len(ids) == 0 {
		logger.Warn("No indexed chunks found for %s", filename)
		return 0, nil
	}

	if err := s.store.DeleteByIDs(ctx, ids); err != nil {
		return 0, fmt.Errorf("deleting %s: %w", filename, err)
	}

	logger.Info("Deleted %d chunk(s) for %s", len(ids), filename)
	return len(ids), nil
}

// Documents lists indexed filenames with their chunk counts.
func (s *IngestService) Documents(ctx context.Context) (map[string]int, error) {
	counts, err := s.store.Filenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return counts, nil
}
