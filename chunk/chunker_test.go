package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_SingleChunkWhenTextFits(t *testing.T) {
	chunker := NewChunker(WithChunkSize(500), WithOverlap(50))

	text := "The mitochondrion is the powerhouse of the cell. It produces most of the chemical energy."
	chunks := chunker.Chunk(text, "doc_1", nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, "chunk_0000", chunks[0].ChunkID)
	assert.Equal(t, "doc_1", chunks[0].DocID)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
}

func TestChunker_OneSentencePerChunkWhenBudgetIsTight(t *testing.T) {
	chunker := NewChunker(WithChunkSize(30), WithOverlap(0))

	text := "Cats are mammals. Dogs are mammals too. Birds can fly."
	chunks := chunker.Chunk(text, "doc_1", nil)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Cats are mammals.", chunks[0].Content)
	assert.Equal(t, "Dogs are mammals too.", chunks[1].Content)
	assert.Equal(t, "Birds can fly.", chunks[2].Content)
}

func TestChunker_PacksSentencesWhileTheyFit(t *testing.T) {
	chunker := NewChunker(WithChunkSize(40), WithOverlap(0))

	text := "Cats are mammals. Dogs are mammals too. Birds can fly."
	chunks := chunker.Chunk(text, "doc_1", nil)

	// First two sentences total 38 characters and share the budget.
	require.Len(t, chunks, 2)
	assert.Equal(t, "Cats are mammals. Dogs are mammals too.", chunks[0].Content)
	assert.Equal(t, "Birds can fly.", chunks[1].Content)
}

func TestChunker_SequentialZeroPaddedIDs(t *testing.T) {
	chunker := NewChunker(WithChunkSize(25), WithOverlap(0))

	text := "Gene editing alters DNA. Protein folding is complex. Cells divide constantly. Enzymes catalyze reactions."
	chunks := chunker.Chunk(text, "doc_1", nil)

	require.Len(t, chunks, 4)
	for i, chunk := range chunks {
		assert.Equal(t, []string{"chunk_0000", "chunk_0001", "chunk_0002", "chunk_0003"}[i], chunk.ChunkID)
		assert.Equal(t, i, chunk.ChunkIndex)
	}
}

func TestChunker_OverlapIsWordAlignedSuffix(t *testing.T) {
	chunker := NewChunker(WithChunkSize(60), WithOverlap(20))

	text := "Quantum computers use qubits for parallel computation today. " +
		"Classical machines process bits in strict sequence instead. " +
		"Hybrid systems combine both models for practical workloads."
	chunks := chunker.Chunk(text, "doc_1", nil)

	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		curr := chunks[i].Content

		// Find the seed carried over from the previous chunk: a suffix
		// of prev that opens the current chunk and ends on a word
		// boundary.
		seed := ""
		for cut := 1; cut < len(curr); cut++ {
			if strings.HasSuffix(prev, curr[:cut]) && strings.HasPrefix(curr[cut:], " ") {
				seed = curr[:cut]
			}
		}
		require.NotEmpty(t, seed, "chunk %d does not start with a suffix of chunk %d", i, i-1)
		assert.LessOrEqual(t, len(seed), 20)
	}
}

func TestChunker_OverlapNeverSplitsWords(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		overlap int
		want    string
	}{
		{
			name:    "advances past first space",
			text:    "alpha beta gamma delta",
			overlap: 10,
			want:    "delta",
		},
		{
			name:    "short text returned whole",
			text:    "tiny",
			overlap: 10,
			want:    "tiny",
		},
		{
			name:    "no space in window keeps window",
			text:    "abcdef ghij",
			overlap: 4,
			want:    "ghij",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlapTail(tt.text, tt.overlap))
		})
	}
}

func TestChunker_OversizeSentenceStaysWhole(t *testing.T) {
	chunker := NewChunker(WithChunkSize(40), WithOverlap(0))

	long := "This single sentence is far longer than the configured chunk budget allows for."
	chunks := chunker.Chunk(long, "doc_1", nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, long, chunks[0].Content)
}

func TestChunker_EmptyInput(t *testing.T) {
	chunker := NewChunker()

	assert.Empty(t, chunker.Chunk("", "doc_1", nil))
	assert.Empty(t, chunker.Chunk("   \n\t  ", "doc_1", nil))
}

func TestChunker_DropsShortFragments(t *testing.T) {
	chunker := NewChunker(WithChunkSize(500), WithOverlap(0))

	chunks := chunker.Chunk("Hi. This sentence is long enough to survive filtering.", "doc_1", nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, "This sentence is long enough to survive filtering.", chunks[0].Content)
}

func TestChunker_MetadataInherited(t *testing.T) {
	chunker := NewChunker(WithChunkSize(25), WithOverlap(0))

	meta := map[string]string{"title": "Cell Biology", "file_name": "cells.txt"}
	text := "Gene editing alters DNA. Protein folding is complex."
	chunks := chunker.Chunk(text, "doc_1", meta)

	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.Equal(t, "Cell Biology", chunk.Metadata["title"])
		assert.Equal(t, "cells.txt", chunk.Metadata["file_name"])
	}

	// Chunk metadata is a copy, not a shared reference.
	chunks[0].Metadata["title"] = "changed"
	assert.Equal(t, "Cell Biology", chunks[1].Metadata["title"])
	assert.Equal(t, "Cell Biology", meta["title"])
}

func TestChunker_ExclamationAndQuestionBoundaries(t *testing.T) {
	chunker := NewChunker(WithChunkSize(30), WithOverlap(0))

	text := "What makes enzymes special? They catalyze without being consumed! Reaction rates increase greatly."
	chunks := chunker.Chunk(text, "doc_1", nil)

	require.Len(t, chunks, 3)
	assert.Equal(t, "What makes enzymes special?", chunks[0].Content)
	assert.Equal(t, "They catalyze without being consumed!", chunks[1].Content)
	assert.Equal(t, "Reaction rates increase greatly.", chunks[2].Content)
}
