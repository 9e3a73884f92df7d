package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentRepo(t *testing.T) graph.DocumentRepository {
	t.Helper()
	entityRepo, documentRepo, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	t.Cleanup(func() {
		documentRepo.Close()
		entityRepo.Close()
		backend.Close()
	})
	return documentRepo
}

func testRecord(docID string) *core.DocumentRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &core.DocumentRecord{
		DocID:       docID,
		Source:      "/data/papers/" + docID + ".md",
		Title:       "Title of " + docID,
		Fingerprint: "a1b2c3d4",
		ChunkCount:  4,
		EntityCount: 2,
		IngestedAt:  now,
		UpdatedAt:   now,
	}
}

func TestPutGetDocument(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	record := testRecord("doc_a1b2c3d4")
	require.NoError(t, repo.PutDocument(ctx, record))

	got, err := repo.GetDocument(ctx, "doc_a1b2c3d4")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, record.DocID, got.DocID)
	assert.Equal(t, record.Source, got.Source)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Fingerprint, got.Fingerprint)
	assert.Equal(t, record.ChunkCount, got.ChunkCount)
	assert.Equal(t, record.EntityCount, got.EntityCount)
	assert.True(t, record.IngestedAt.Equal(got.IngestedAt))
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := newTestDocumentRepo(t)

	_, err := repo.GetDocument(context.Background(), "doc_unknown")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestPutDocument_Replaces(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	record := testRecord("doc_a1b2c3d4")
	require.NoError(t, repo.PutDocument(ctx, record))

	record.ChunkCount = 9
	record.Fingerprint = "e5f6a7b8"
	require.NoError(t, repo.PutDocument(ctx, record))

	got, err := repo.GetDocument(ctx, "doc_a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, 9, got.ChunkCount)
	assert.Equal(t, "e5f6a7b8", got.Fingerprint)

	records, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDeleteDocument(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocument(ctx, testRecord("doc_a1b2c3d4")))

	existed, err := repo.DeleteDocument(ctx, "doc_a1b2c3d4")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = repo.GetDocument(ctx, "doc_a1b2c3d4")
	assert.ErrorIs(t, err, graph.ErrNotFound)

	existed, err = repo.DeleteDocument(ctx, "doc_a1b2c3d4")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestListDocuments_OrderedByDocID(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	for _, docID := range []string{"doc_c3", "doc_a1", "doc_b2"} {
		require.NoError(t, repo.PutDocument(ctx, testRecord(docID)))
	}

	records, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "doc_a1", records[0].DocID)
	assert.Equal(t, "doc_b2", records[1].DocID)
	assert.Equal(t, "doc_c3", records[2].DocID)
}

func TestListDocuments_Empty(t *testing.T) {
	repo := newTestDocumentRepo(t)

	records, err := repo.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
