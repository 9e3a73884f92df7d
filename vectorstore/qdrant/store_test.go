package qdrant

import (
	"testing"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/vectorstore"
)

func TestPointIDIsStable(t *testing.T) {
	chunk := core.DocumentChunk{DocID: "doc_ab12cd34", ChunkID: "chunk_0003"}

	first := pointID(chunk)
	second := pointID(chunk)
	assert.Equal(t, first, second, "same chunk identity must map to the same point id")

	other := core.DocumentChunk{DocID: "doc_ab12cd34", ChunkID: "chunk_0004"}
	assert.NotEqual(t, first, pointID(other), "different chunks must map to different point ids")
}

func TestPayloadValueRoundTrip(t *testing.T) {
	chunk := core.DocumentChunk{
		DocID:   "doc_ab12cd34",
		ChunkID: "chunk_0000",
		Content: "Enzymes catalyze biochemical reactions.",
		Metadata: map[string]string{
			"title": "Biochemistry Notes",
		},
	}

	payload := vectorstore.PayloadFromChunk(chunk)
	restored := stringPayload(valuePayload(payload))

	assert.Equal(t, payload, restored, "payload must survive the value conversion")
}

func TestStringPayloadSkipsNonStringValues(t *testing.T) {
	values := map[string]*qdrantclient.Value{
		"doc_id": {Kind: &qdrantclient.Value_StringValue{StringValue: "doc_1"}},
		"count":  {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: 3}},
	}

	payload := stringPayload(values)

	assert.Equal(t, "doc_1", payload["doc_id"])
	_, ok := payload["count"]
	assert.False(t, ok, "non-string payload values are ignored")
}

func TestDocFilterMatchesDocIDKeyword(t *testing.T) {
	filter := docFilter("doc_ab12cd34")

	require.Len(t, filter.Must, 1)
	field := filter.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "doc_id", field.Key)
	assert.Equal(t, "doc_ab12cd34", field.Match.GetKeyword())
}
