package scholar

import (
	"context"
	"testing"

	"github.com/poiesic/scholar/ai/mock"
	"github.com/poiesic/scholar/chunk"
	"github.com/poiesic/scholar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()

	// No generator: every answer is produced by the fallback path.
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil, mock.NewMockEntityExtractor())

	assistant, err := NewAssistant("",
		WithInMemoryGraph(),
		WithAIProvider(provider),
		WithChunking(chunk.WithChunkSize(120), chunk.WithOverlap(20)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })
	return assistant
}

func TestAssistant_IngestQueryDelete(t *testing.T) {
	assistant := newTestAssistant(t)
	ctx := context.Background()

	report, err := assistant.Ingest(ctx, "doc_cells",
		"Mitochondria produce energy for the cell. Ribosomes assemble proteins from amino acids. "+
			"The Golgi apparatus packages proteins for transport.",
		map[string]string{"title": "Cell biology"})
	require.NoError(t, err)
	assert.Equal(t, "doc_cells", report.DocID)
	assert.Greater(t, report.ChunksProcessed, 0)

	response, err := assistant.Query(ctx, &core.ResearchQuery{
		Question:        "What do mitochondria do?",
		IncludeEntities: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Answer)
	assert.NotEmpty(t, response.Sources)
	assert.True(t, response.Degraded, "mock provider has no generator, answers are fallback")

	documents, err := assistant.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "Cell biology", documents[0].Title)

	stats, err := assistant.GraphStats(ctx)
	require.NoError(t, err)
	assert.Greater(t, stats.Nodes, 0)

	removed, err := assistant.DeleteDocument(ctx, "doc_cells")
	require.NoError(t, err)
	assert.True(t, removed)

	documents, err = assistant.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, documents)
}

func TestAssistant_QueryValidation(t *testing.T) {
	assistant := newTestAssistant(t)

	_, err := assistant.Query(context.Background(), &core.ResearchQuery{Question: "  "})
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestAssistant_GeneratorConfigured(t *testing.T) {
	assistant := newTestAssistant(t)
	assert.False(t, assistant.GeneratorConfigured(), "mock provider carries no generator")
	assert.NotNil(t, assistant.Pipeline())
	assert.NotNil(t, assistant.Ingestor())
	assert.NotNil(t, assistant.VectorStore())
	assert.NotNil(t, assistant.EntityRepository())
	assert.NotNil(t, assistant.DocumentRepository())
}

func TestAssistant_PersistsGraphOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	assistant, err := NewAssistant(dir, WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	_, err = assistant.Ingest(ctx, "doc_keep", "Enzymes catalyze reactions in living organisms.", nil)
	require.NoError(t, err)
	require.NoError(t, assistant.Close())

	// Reopen: the graph and registry survive, the in-memory vector
	// store does not.
	reopened, err := NewAssistant(dir, WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	documents, err := reopened.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "doc_keep", documents[0].DocID)
}
