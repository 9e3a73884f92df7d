package ingestion

import "errors"

var (
	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoContent is returned when a document's text is empty or
	// whitespace-only and yields no chunks.
	ErrNoContent = errors.New("no extractable content")

	// ErrUnsupportedFormat is returned when a file's extension is not a
	// supported text format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidMaxAttempts is returned when a retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrIngestorRequired is returned when an ingestor is not provided.
	ErrIngestorRequired = errors.New("ingestor required")

	// ErrWatcherClosed is returned when a watcher is used after Close.
	ErrWatcherClosed = errors.New("watcher is closed")
)
