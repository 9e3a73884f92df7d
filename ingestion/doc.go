// Package ingestion turns raw document text into retrievable state.
//
// The Ingestor type runs the full ingestion flow for a document:
//   - Chunking text into overlapping retrieval units
//   - Generating embeddings for all chunks in one batched call
//   - Upserting the embedded chunks into the vector store
//   - Extracting named entities per document and registering them,
//     together with a CONTAINS relation from the document node, in the
//     entity graph
//
// Entity extraction is optional enrichment: an unreachable graph store
// skips it, and a per-document extraction failure is captured in the
// ingest report without aborting the remaining documents. Extraction for
// independent documents is fanned out on a worker pool.
//
// The package also provides file loading for supported text formats and
// a directory watcher that re-ingests changed files, using the document
// registry's content fingerprints to skip unchanged ones.
package ingestion
