package httpapi

import "errors"

var (
	// ErrPipelineRequired is returned when a query pipeline is not provided.
	ErrPipelineRequired = errors.New("query pipeline required")

	// ErrIngestorRequired is returned when an ingestor is not provided.
	ErrIngestorRequired = errors.New("ingestor required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")
)
