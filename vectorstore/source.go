package vectorstore

import (
	"strconv"

	"github.com/poiesic/scholar/core"
)

// PayloadFromChunk flattens a chunk into the string payload a store
// persists alongside its vector: the chunk's own metadata plus the
// identifying fields and the chunk text.
func PayloadFromChunk(chunk core.DocumentChunk) map[string]string {
	payload := make(map[string]string, len(chunk.Metadata)+4)
	for k, v := range chunk.Metadata {
		payload[k] = v
	}
	payload["doc_id"] = chunk.DocID
	payload["chunk_id"] = chunk.ChunkID
	payload["text"] = chunk.Content
	if chunk.PageNumber > 0 {
		payload["page_number"] = strconv.Itoa(chunk.PageNumber)
	}
	return payload
}

// SourceFromPayload rebuilds a retrieval result from a stored payload
// and a relevance score. The chunk text is lifted out of the payload;
// everything else rides along as source metadata.
func SourceFromPayload(payload map[string]string, score float32) core.RetrievedSource {
	metadata := make(map[string]string, len(payload))
	for k, v := range payload {
		if k == "text" {
			continue
		}
		metadata[k] = v
	}

	return core.RetrievedSource{
		DocID:          payload["doc_id"],
		Title:          payload["title"],
		ChunkText:      payload["text"],
		RelevanceScore: score,
		Metadata:       metadata,
	}
}

// SourceFromChunk builds the retrieval result for a chunk at the given
// relevance score. Stores that keep chunks in memory use this directly;
// stores that persist payloads get the same shape back through
// SourceFromPayload.
func SourceFromChunk(chunk core.DocumentChunk, score float32) core.RetrievedSource {
	return SourceFromPayload(PayloadFromChunk(chunk), score)
}
