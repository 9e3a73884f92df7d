package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/ai/mock"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	gbadger "github.com/poiesic/scholar/graph/badger"
	"github.com/poiesic/scholar/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "CRISPR enables precise gene editing in living cells. " +
	"The technique was adapted from a bacterial immune system. " +
	"Doudna and Charpentier received the Nobel Prize for this work."

// newTestIngestor wires an ingestor over in-memory stores and the mock
// AI provider. The returned backend lets tests force the degraded path
// by closing the graph store.
func newTestIngestor(t *testing.T, provider ai.AIProvider, opts ...Option) (*Ingestor, *memory.Store, graph.EntityRepository, graph.DocumentRepository, *gbadger.Backend) {
	t.Helper()

	store := memory.NewStore()
	entityRepo, documentRepo, backend, err := gbadger.NewMemoryGraph()
	require.NoError(t, err)
	t.Cleanup(func() {
		documentRepo.Close()
		entityRepo.Close()
		backend.Close()
	})

	if provider == nil {
		provider = mock.NewMockProvider()
	}

	ing, err := NewIngestor(store, entityRepo, documentRepo, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(ing.Release)

	return ing, store, entityRepo, documentRepo, backend
}

func TestNewIngestor_RequiresCollaborators(t *testing.T) {
	_, err := NewIngestor(nil, nil, nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewIngestor(memory.NewStore(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestIngestText_RejectsEmptyText(t *testing.T) {
	ing, _, _, _, _ := newTestIngestor(t, nil)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := ing.IngestText(context.Background(), "doc_1", text, nil)
		assert.ErrorIs(t, err, ErrNoContent)
	}
}

func TestIngestText_StoresChunksAndEntities(t *testing.T) {
	ing, store, entityRepo, documentRepo, _ := newTestIngestor(t, nil)
	ctx := context.Background()

	report, err := ing.IngestText(ctx, "doc_bio", sampleText, map[string]string{"title": "CRISPR notes"})
	require.NoError(t, err)

	assert.Equal(t, "doc_bio", report.DocID)
	assert.Greater(t, report.ChunksProcessed, 0)
	assert.Greater(t, report.EntitiesAdded, 0, "mock extractor finds capitalized words")
	assert.Empty(t, report.Failures)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ChunksProcessed, count)

	// The document node is connected to its entities via CONTAINS.
	neighbors, err := entityRepo.Neighbors(ctx, "doc_bio", 1)
	require.NoError(t, err)
	assert.Len(t, neighbors, report.EntitiesAdded)
	for _, n := range neighbors {
		assert.Equal(t, core.RelationContains, n.RelationshipLabel)
	}

	record, err := documentRepo.GetDocument(ctx, "doc_bio")
	require.NoError(t, err)
	assert.Equal(t, "CRISPR notes", record.Title)
	assert.Equal(t, report.ChunksProcessed, record.ChunkCount)
	assert.Equal(t, report.EntitiesAdded, record.EntityCount)
	assert.NotEmpty(t, record.Fingerprint)
}

func TestIngestText_GeneratesDocID(t *testing.T) {
	ing, _, _, _, _ := newTestIngestor(t, nil)

	report, err := ing.IngestText(context.Background(), "", sampleText, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report.DocID, "doc_"), "generated id should carry the doc_ prefix")
}

func TestIngestChunks_PerDocumentFailureIsCaptured(t *testing.T) {
	extractor := mock.NewMockEntityExtractor()
	extractor.ExtractEntitiesFunc = func(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
		if strings.Contains(text, "broken") {
			return nil, errors.New("model unavailable")
		}
		return []ai.ExtractedEntity{{Name: "CRISPR", Type: "TECHNOLOGY"}}, nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil, extractor)

	ing, store, _, _, _ := newTestIngestor(t, provider)
	ctx := context.Background()

	chunks := []core.DocumentChunk{
		{DocID: "doc_good", ChunkID: "chunk_0000", Content: "CRISPR enables gene editing."},
		{DocID: "doc_bad", ChunkID: "chunk_0000", Content: "this one is broken on purpose"},
	}

	report, err := ing.IngestChunks(ctx, chunks)
	require.NoError(t, err, "one document's extraction failure must not fail the batch")

	assert.Equal(t, 2, report.ChunksProcessed)
	assert.Equal(t, 1, report.EntitiesAdded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "doc_bad", report.Failures[0].DocID)

	// Both documents' chunks still made it into the vector store.
	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestChunks_EmbeddingFailurePropagates(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	provider := mock.NewMockProviderWithServices(embedder, nil, nil)

	ing, store, _, _, _ := newTestIngestor(t, provider, WithRetry(2, time.Millisecond))
	ctx := context.Background()

	chunks := []core.DocumentChunk{
		{DocID: "doc_1", ChunkID: "chunk_0000", Content: "some content here"},
	}
	_, err := ing.IngestChunks(ctx, chunks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "nothing should be stored when embedding fails")
}

func TestIngestChunks_DegradedGraphSkipsExtraction(t *testing.T) {
	ing, store, _, _, backend := newTestIngestor(t, nil)
	ctx := context.Background()

	// Closing the backend makes Ping fail: the degraded path.
	require.NoError(t, backend.Close())

	report, err := ing.IngestText(ctx, "doc_1", sampleText, nil)
	require.NoError(t, err, "an unreachable graph is degraded, not an error")
	assert.Zero(t, report.EntitiesAdded)
	assert.Empty(t, report.Failures)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ChunksProcessed, count)
}

func TestIngestChunks_ValidatesChunks(t *testing.T) {
	ing, _, _, _, _ := newTestIngestor(t, nil)

	_, err := ing.IngestChunks(context.Background(), []core.DocumentChunk{
		{DocID: "", ChunkID: "chunk_0000", Content: "content"},
	})
	assert.ErrorIs(t, err, core.ErrInvalidChunk)

	_, err = ing.IngestChunks(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestDeleteDocument_RemovesEverywhere(t *testing.T) {
	ing, store, entityRepo, documentRepo, _ := newTestIngestor(t, nil)
	ctx := context.Background()

	_, err := ing.IngestText(ctx, "doc_del", sampleText, nil)
	require.NoError(t, err)

	removed, err := ing.DeleteDocument(ctx, "doc_del")
	require.NoError(t, err)
	assert.True(t, removed)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	neighbors, err := entityRepo.Neighbors(ctx, "doc_del", 1)
	require.NoError(t, err)
	assert.Empty(t, neighbors)

	_, err = documentRepo.GetDocument(ctx, "doc_del")
	assert.ErrorIs(t, err, graph.ErrNotFound)

	removed, err = ing.DeleteDocument(ctx, "doc_del")
	require.NoError(t, err)
	assert.False(t, removed, "second delete finds nothing")
}

func TestIngestDirectory_BestEffort(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte(sampleText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.md"), []byte("Markdown about Proteins. They fold into shapes."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.pdf"), []byte("%PDF"), 0o644))

	ing, store, _, documentRepo, _ := newTestIngestor(t, nil)
	ctx := context.Background()

	report, err := ing.IngestDirectory(ctx, dir, nil)
	require.NoError(t, err)

	assert.Greater(t, report.ChunksProcessed, 0)
	require.Len(t, report.Failures, 1, "the empty file is the only failure")
	assert.ErrorIs(t, report.Failures[0].Err, ErrNoContent)

	records, err := documentRepo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ChunksProcessed, count)
}
