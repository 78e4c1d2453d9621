// Package watcher keeps the index in sync with a watched directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// changeType classifies a filesystem event for the index.
type changeType int

const (
	changeNone changeType = iota
	changeUpsert
	changeDelete
)

// Watcher observes one directory and mirrors file changes into the
// index: created and modified files are ingested, removed files are
// deleted by filename. The element cache artifact is invalidated on
// every handled event, so a modified file is re-parsed rather than
// served from its pre-modification cache, and a deleted file cannot
// resurrect through a leftover artifact. Re-ingesting an unchanged
// file is a no-op at the index level, so duplicate events are
// harmless.
type Watcher struct {
	dir       string
	ingest    driving.IngestService
	cache     driven.ElementCache
	supported func(path string) bool
	fs        *fsnotify.Watcher
}

// New creates a watcher for dir. The directory is created if missing.
// The cache is optional; nil disables artifact invalidation.
func New(dir string, ingest driving.IngestService, cache driven.ElementCache, supported func(path string) bool) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watch dir: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close() //nolint:errcheck
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{dir: dir, ingest: ingest, cache: cache, supported: supported, fs: fs}, nil
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.apply(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// apply executes the index operation for one event.
func (w *Watcher) apply(ctx context.Context, event fsnotify.Event) {
	switch w.classify(event) {
	case changeUpsert:
		// Drop the cached element artifact first: a write event means
		// the file changed, so serving its cache would re-index the
		// pre-modification content.
		w.invalidate(event.Name)
		count, err := w.ingest.IngestFile(ctx, event.Name)
		if err != nil {
			logger.Warn("ingesting %s: %v", event.Name, err)
			return
		}
		logger.Info("indexed %s (%d chunks)", filepath.Base(event.Name), count)

	case changeDelete:
		filename := filepath.Base(event.Name)
		count, err := w.ingest.DeleteDocument(ctx, filename)
		if err != nil {
			logger.Warn("deleting %s: %v", filename, err)
			return
		}
		// Remove the artifact too, or a re-created file with the same
		// name would resurrect the deleted document's elements.
		w.invalidate(event.Name)
		if count > 0 {
			logger.Info("removed %s (%d chunks)", filename, count)
		}

	case changeNone:
	}
}

// invalidate drops the element cache artifact for path, if caching is
// enabled.
func (w *Watcher) invalidate(path string) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Invalidate(path); err != nil {
		logger.Warn("invalidating element cache for %s: %v", filepath.Base(path), err)
	}
}

// classify maps a filesystem event to an index operation. Hidden
// files, directories and unsupported extensions are ignored.
func (w *Watcher) classify(event fsnotify.Event) changeType {
	// Only the part below the watched dir counts for hiddenness; the
	// watched dir itself may live under a dot directory like ~/.docq.
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		rel = filepath.Base(event.Name)
	}
	if isHidden(rel) || !w.supported(event.Name) {
		return changeNone
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		// Directories pass the extension check only by accident, but
		// check anyway: a directory named like a file must not be
		// handed to a parser.
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return changeNone
		}
		return changeUpsert

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return changeDelete

	default:
		return changeNone
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// isHidden reports whether any path component starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
