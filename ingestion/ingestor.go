// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/chunk"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	"github.com/poiesic/scholar/vectorstore"
)

const (
	// maxExtractionChunks bounds how many leading chunks per document
	// feed the entity extraction call. Extraction is enrichment, not
	// indexing; the first chunks carry the introductory material where
	// the important entities show up.
	maxExtractionChunks = 3

	// Embedding retry defaults. Overridable via WithRetry.
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Ingestor runs the ingestion flow: chunk, embed, store, and enrich the
// entity graph. The graph repositories may be nil, in which case entity
// extraction and document registration are skipped entirely.
type Ingestor struct {
	store      vectorstore.VectorStore
	entities   graph.EntityRepository
	documents  graph.DocumentRepository
	embedder   ai.Embedder
	extractor  ai.EntityExtractor
	chunker    *chunk.Chunker
	pool       *ants.Pool
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithChunker substitutes the chunker.
// Default is chunk.NewChunker() with its default size and overlap.
func WithChunker(chunker *chunk.Chunker) Option {
	return func(ing *Ingestor) error {
		if chunker == nil {
			return fmt.Errorf("chunker cannot be nil")
		}
		ing.chunker = chunker
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent per-document
// entity extraction. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ing *Ingestor) error {
		if size < 1 {
			size = 1
		}

		if ing.pool != nil {
			ing.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ing.pool = pool
		return nil
	}
}

// WithRetry configures the embedding retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(ing *Ingestor) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		ing.maxRetries = maxAttempts
		ing.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ing *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		ing.logger = logger
		return nil
	}
}

// NewIngestor creates an ingestor. The entity and document repositories
// may be nil for vector-only operation.
func NewIngestor(
	store vectorstore.VectorStore,
	entities graph.EntityRepository,
	documents graph.DocumentRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Ingestor, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ing := &Ingestor{
		store:      store,
		entities:   entities,
		documents:  documents,
		embedder:   provider.Embedder(),
		extractor:  provider.EntityExtractor(),
		chunker:    chunk.NewChunker(),
		pool:       pool,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(ing); err != nil {
			ing.Release()
			return nil, err
		}
	}

	return ing, nil
}

// IngestText chunks, embeds, and stores one document's text, then runs
// entity extraction when the graph store is reachable. Empty or
// whitespace-only text is rejected with ErrNoContent before any
// collaborator is called.
func (ing *Ingestor) IngestText(ctx context.Context, docID, text string, metadata map[string]string) (*core.IngestReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}
	if docID == "" {
		docID = "doc_" + core.FingerprintFromContent(text)
	}

	chunks := ing.chunker.Chunk(text, docID, metadata)
	if len(chunks) == 0 {
		return nil, ErrNoContent
	}

	return ing.IngestChunks(ctx, chunks)
}

// IngestChunks embeds and stores pre-chunked documents, then enriches
// the entity graph per document. The chunk batch may span multiple
// documents; extraction failures for one document are captured in the
// report without aborting the others.
func (ing *Ingestor) IngestChunks(ctx context.Context, chunks []core.DocumentChunk) (*core.IngestReport, error) {
	if len(chunks) == 0 {
		return nil, ErrNoContent
	}
	for i := range chunks {
		if err := core.ValidateChunk(&chunks[i]); err != nil {
			return nil, err
		}
	}

	ing.logger.Info("ingesting chunks", "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	// One batched embedding call for the whole ingest, retried with
	// backoff since a failure here fails the entire operation.
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = ing.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, ing.maxRetries, ing.retryDelay)
	if err != nil {
		ing.logger.Error("error generating embeddings", "err", err)
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i := range chunks {
		points[i] = vectorstore.Point{Vector: embeddings[i], Chunk: chunks[i]}
	}
	if err := ing.store.Upsert(ctx, points); err != nil {
		ing.logger.Error("error adding chunks to vector store", "err", err)
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	report := &core.IngestReport{ChunksProcessed: len(chunks)}

	byDoc, order := groupByDocument(chunks)
	if len(order) == 1 {
		report.DocID = order[0]
	}

	ing.extractDocuments(ctx, byDoc, order, report)

	ing.logger.Info("ingestion complete",
		"documents", len(order),
		"chunks", report.ChunksProcessed,
		"entities", report.EntitiesAdded,
		"failures", len(report.Failures))
	return report, nil
}

// extractDocuments fans per-document entity extraction out on the worker
// pool and accumulates results into the report. Skipped entirely when
// the graph store is nil or unreachable; that is the degraded path, not
// an error.
func (ing *Ingestor) extractDocuments(ctx context.Context, byDoc map[string][]core.DocumentChunk, order []string, report *core.IngestReport) {
	if ing.entities == nil || ing.extractor == nil {
		return
	}
	if err := ing.entities.Ping(ctx); err != nil {
		ing.logger.Warn("graph store unreachable, skipping entity extraction", "err", err)
		return
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, docID := range order {
		chunks := byDoc[docID]

		wg.Add(1)
		submitErr := ing.pool.Submit(func() {
			defer wg.Done()
			added, err := ing.extractDocument(ctx, docID, chunks)

			mu.Lock()
			defer mu.Unlock()
			report.EntitiesAdded += added
			if err != nil {
				ing.logger.Warn("entity extraction failed", "doc_id", docID, "err", err)
				report.Failures = append(report.Failures, core.DocumentFailure{DocID: docID, Err: err})
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failures = append(report.Failures, core.DocumentFailure{DocID: docID, Err: submitErr})
			mu.Unlock()
		}
	}
	wg.Wait()
}

// extractDocument extracts entities from one document's leading chunks
// and registers them in the graph: a document node, one node per
// entity, and a CONTAINS relation between them. Returns the number of
// entities attached.
func (ing *Ingestor) extractDocument(ctx context.Context, docID string, chunks []core.DocumentChunk) (int, error) {
	limit := len(chunks)
	if limit > maxExtractionChunks {
		limit = maxExtractionChunks
	}
	texts := make([]string, limit)
	for i := 0; i < limit; i++ {
		texts[i] = chunks[i].Content
	}
	sample := strings.Join(texts, " ")

	entities, err := ing.extractor.ExtractEntities(ctx, sample)
	if err != nil {
		return 0, fmt.Errorf("extracting entities: %w", err)
	}
	ing.logger.Debug("extracted entities", "doc_id", docID, "entities", len(entities))

	if _, _, err := ing.entities.UpsertEntity(ctx, docID, core.EntityTypeDocument, nil); err != nil {
		return 0, fmt.Errorf("registering document node: %w", err)
	}

	added := 0
	for _, entity := range entities {
		entityType := entity.Type
		if entityType == "" {
			entityType = ai.DefaultEntityType
		}

		var properties map[string]string
		if entity.Context != "" {
			properties = map[string]string{"context": entity.Context}
		}

		if _, _, err := ing.entities.UpsertEntity(ctx, entity.Name, entityType, properties); err != nil {
			ing.logger.Warn("entity upsert failed", "doc_id", docID, "entity", entity.Name, "err", err)
			continue
		}
		if _, _, err := ing.entities.UpsertRelation(ctx, docID, entity.Name, core.RelationContains, nil); err != nil {
			ing.logger.Warn("relation upsert failed", "doc_id", docID, "entity", entity.Name, "err", err)
			continue
		}
		added++
	}

	ing.registerDocument(ctx, docID, chunks, added)
	return added, nil
}

// registerDocument records the document in the registry. Best-effort;
// a failed registration is logged, not reported.
func (ing *Ingestor) registerDocument(ctx context.Context, docID string, chunks []core.DocumentChunk, entityCount int) {
	if ing.documents == nil {
		return
	}

	meta := chunks[0].Metadata

	// Prefer the source-content fingerprint the loader computed; hashing
	// the chunk contents is only comparable to itself (the chunker
	// rewrites whitespace and overlaps).
	fingerprint := meta["content_fingerprint"]
	if fingerprint == "" {
		var content strings.Builder
		for _, c := range chunks {
			content.WriteString(c.Content)
		}
		fingerprint = core.FingerprintFromContent(content.String())
	}

	now := time.Now().UTC()
	record := &core.DocumentRecord{
		DocID:       docID,
		Source:      meta["source"],
		Title:       meta["title"],
		Fingerprint: fingerprint,
		ChunkCount:  len(chunks),
		EntityCount: entityCount,
		IngestedAt:  now,
		UpdatedAt:   now,
	}
	if err := ing.documents.PutDocument(ctx, record); err != nil {
		ing.logger.Warn("document registration failed", "doc_id", docID, "err", err)
	}
}

// IngestFile loads a supported file from disk and ingests it.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (*core.IngestReport, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	doc.Metadata["source"] = path
	return ing.IngestText(ctx, doc.DocID, doc.Text, doc.Metadata)
}

// IngestDirectory ingests every supported file directly inside dir,
// reporting progress to the tracker when one is supplied. Per-file
// failures are collected into the combined report; only an unreadable
// directory fails the call.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string, progress *ProgressTracker) (*core.IngestReport, error) {
	paths, err := ListSupportedFiles(dir)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress.Start()
		defer progress.Finish()
	}

	combined := &core.IngestReport{}
	for _, path := range paths {
		report, err := ing.IngestFile(ctx, path)
		if err != nil {
			combined.Failures = append(combined.Failures, core.DocumentFailure{DocID: path, Err: err})
		} else {
			combined.ChunksProcessed += report.ChunksProcessed
			combined.EntitiesAdded += report.EntitiesAdded
			combined.Failures = append(combined.Failures, report.Failures...)
		}
		if progress != nil {
			progress.Increment(1)
		}
	}
	return combined, nil
}

// DeleteDocument removes a document everywhere it lives: its chunks in
// the vector store, its node and incident relations in the entity
// graph, and its registry record. Reports whether anything was removed.
func (ing *Ingestor) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	removed, err := ing.store.DeleteDocument(ctx, docID)
	if err != nil {
		return false, fmt.Errorf("deleting chunks: %w", err)
	}

	if ing.entities != nil {
		if deleted, err := ing.entities.DeleteEntity(ctx, docID); err != nil {
			ing.logger.Warn("graph node deletion failed", "doc_id", docID, "err", err)
		} else if deleted {
			removed = true
		}
	}
	if ing.documents != nil {
		if deleted, err := ing.documents.DeleteDocument(ctx, docID); err != nil {
			ing.logger.Warn("registry deletion failed", "doc_id", docID, "err", err)
		} else if deleted {
			removed = true
		}
	}

	return removed, nil
}

// Release releases the worker pool. The ingestor should not be used
// after calling Release.
func (ing *Ingestor) Release() {
	if ing.pool != nil {
		ing.pool.Release()
	}
}

// groupByDocument splits a chunk batch per document, preserving both
// chunk order within a document and first-seen document order.
func groupByDocument(chunks []core.DocumentChunk) (map[string][]core.DocumentChunk, []string) {
	byDoc := make(map[string][]core.DocumentChunk)
	var order []string
	for _, c := range chunks {
		if _, ok := byDoc[c.DocID]; !ok {
			order = append(order, c.DocID)
		}
		byDoc[c.DocID] = append(byDoc[c.DocID], c)
	}
	return byDoc, order
}
