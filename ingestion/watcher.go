package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/scholar/core"
)

// Watcher auto-ingests supported files as they appear or change in a
// watched directory. Change detection goes through the document
// registry: a file whose content fingerprint matches its registered
// record is skipped, an edited file replaces its previous version.
type Watcher struct {
	ingestor *Ingestor
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
}

// NewWatcher creates a watcher feeding the given ingestor. The ingestor
// needs a document repository for change detection; without one every
// event triggers a fresh ingest.
func NewWatcher(ingestor *Ingestor) (*Watcher, error) {
	if ingestor == nil {
		return nil, ErrIngestorRequired
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}

	return &Watcher{
		ingestor: ingestor,
		fsw:      fsw,
		logger:   ingestor.logger.With("component", "watcher"),
	}, nil
}

// Watch ingests the directory's existing supported files, then blocks
// processing file events until the context is cancelled. Per-file
// failures are logged and skipped; the watch keeps running.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching directory", "dir", dir)

	// Catch up on whatever is already there before waiting for events.
	paths, err := ListSupportedFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		w.handleFile(ctx, path)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsSupportedFile(event.Name) {
				continue
			}
			w.handleFile(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleFile loads a file and ingests it unless the registry already
// holds the same content for that path.
func (w *Watcher) handleFile(ctx context.Context, path string) {
	doc, err := LoadFile(path)
	if err != nil {
		w.logger.Warn("skipping file", "path", path, "err", err)
		return
	}

	previous := w.findBySource(ctx, path)
	if previous != nil {
		if previous.Fingerprint == doc.Fingerprint {
			w.logger.Debug("file unchanged, skipping", "path", path)
			return
		}
		// Content changed: the identity-derived doc id changed with it,
		// so drop the stale document before ingesting the new version.
		if _, err := w.ingestor.DeleteDocument(ctx, previous.DocID); err != nil {
			w.logger.Warn("stale document cleanup failed", "doc_id", previous.DocID, "err", err)
		}
	}

	doc.Metadata["source"] = path
	report, err := w.ingestor.IngestText(ctx, doc.DocID, doc.Text, doc.Metadata)
	if err != nil {
		w.logger.Error("auto-ingest failed", "path", path, "err", err)
		return
	}
	w.logger.Info("file ingested",
		"path", filepath.Base(path),
		"doc_id", doc.DocID,
		"chunks", report.ChunksProcessed,
		"entities", report.EntitiesAdded)
}

// findBySource scans the registry for a record whose source matches the
// path. Returns nil when the registry is unavailable or has no match.
func (w *Watcher) findBySource(ctx context.Context, path string) *core.DocumentRecord {
	if w.ingestor.documents == nil {
		return nil
	}
	records, err := w.ingestor.documents.ListDocuments(ctx)
	if err != nil {
		w.logger.Warn("registry listing failed", "err", err)
		return nil
	}
	for _, record := range records {
		if record.Source == path {
			return record
		}
	}
	return nil
}
