package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free-text answers from an assembled prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate runs a single generation call and returns the model's
	// response. Provider failures are returned as *Error values so that
	// callers can classify them (rate limiting, quota exhaustion,
	// timeouts) without inspecting message text.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// EntityExtractor extracts named entities from text.
// Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities analyzes text and extracts named entities with their
	// types and a short context phrase. Entities represent the people,
	// organizations, concepts, and technologies mentioned in the text.
	// Returns an empty slice if no entities are found or if the model's
	// response cannot be parsed; extraction is best-effort.
	// Returns an error only if the underlying model call fails.
	ExtractEntities(ctx context.Context, text string) ([]ExtractedEntity, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, Generator, and EntityExtractor instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the answer generation service, or nil when no
	// generation backend is configured. Callers must handle a nil
	// Generator by falling back to extractive answering.
	Generator() Generator

	// EntityExtractor returns the entity extraction service.
	// The returned EntityExtractor is safe for concurrent use.
	EntityExtractor() EntityExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
