package vectorstore

import (
	"context"

	"github.com/poiesic/scholar/core"
)

// Point pairs a document chunk with its embedding vector for storage.
type Point struct {
	// Vector is the chunk's embedding. All points in a store must share
	// one dimensionality.
	Vector []float32

	// Chunk carries the text and metadata stored alongside the vector.
	Chunk core.DocumentChunk
}

// VectorStore provides similarity search over embedded document chunks.
// Implementations must be thread-safe and support concurrent access.
// Embedding happens outside the store; callers pass vectors in.
type VectorStore interface {
	// Upsert adds points to the store, overwriting points with the same
	// document and chunk identifiers. An empty batch is a no-op.
	Upsert(ctx context.Context, points []Point) error

	// Search finds the chunks most similar to the query vector.
	// Returns up to limit sources ordered by relevance score (highest
	// first), where the score is cosine similarity in [about -1, 1].
	Search(ctx context.Context, vector []float32, limit int) ([]core.RetrievedSource, error)

	// DeleteDocument removes every chunk belonging to the document.
	// Reports whether any chunks were found and removed.
	DeleteDocument(ctx context.Context, docID string) (bool, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// ListDocuments returns the distinct document identifiers present in
	// the store, sorted ascending.
	ListDocuments(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}
