package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/scholar/core"
)

func TestPayloadFromChunk(t *testing.T) {
	chunk := core.DocumentChunk{
		DocID:   "doc_ab12cd34",
		ChunkID: "chunk_0002",
		Content: "Photosynthesis converts light into chemical energy.",
		Metadata: map[string]string{
			"title":     "Plant Biology",
			"file_name": "biology.txt",
		},
		PageNumber: 7,
	}

	payload := PayloadFromChunk(chunk)

	assert.Equal(t, "doc_ab12cd34", payload["doc_id"])
	assert.Equal(t, "chunk_0002", payload["chunk_id"])
	assert.Equal(t, chunk.Content, payload["text"])
	assert.Equal(t, "Plant Biology", payload["title"])
	assert.Equal(t, "biology.txt", payload["file_name"])
	assert.Equal(t, "7", payload["page_number"])
}

func TestPayloadFromChunkOmitsUnknownPage(t *testing.T) {
	chunk := core.DocumentChunk{
		DocID:   "doc_ab12cd34",
		ChunkID: "chunk_0000",
		Content: "text",
	}

	payload := PayloadFromChunk(chunk)

	_, ok := payload["page_number"]
	assert.False(t, ok, "page_number should be absent when unknown")
}

func TestSourceRoundTripsThroughPayload(t *testing.T) {
	chunk := core.DocumentChunk{
		DocID:   "doc_ab12cd34",
		ChunkID: "chunk_0001",
		Content: "DNA carries genetic instructions.",
		Metadata: map[string]string{
			"title": "Genetics Primer",
		},
	}

	direct := SourceFromChunk(chunk, 0.91)
	viaPayload := SourceFromPayload(PayloadFromChunk(chunk), 0.91)

	assert.Equal(t, direct, viaPayload, "both store paths must produce the same source")
	assert.Equal(t, "doc_ab12cd34", direct.DocID)
	assert.Equal(t, "Genetics Primer", direct.Title)
	assert.Equal(t, chunk.Content, direct.ChunkText)
	assert.InDelta(t, 0.91, direct.RelevanceScore, 1e-6)

	_, hasText := direct.Metadata["text"]
	assert.False(t, hasText, "chunk text stays out of source metadata")
	assert.Equal(t, "chunk_0001", direct.Metadata["chunk_id"])
}

func TestSourceFromPayloadDoesNotMutateInput(t *testing.T) {
	payload := map[string]string{
		"doc_id": "doc_1",
		"text":   "some text",
	}

	_ = SourceFromPayload(payload, 0.5)

	assert.Equal(t, "some text", payload["text"], "input payload must not be modified")
}
