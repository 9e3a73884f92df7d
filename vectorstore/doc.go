// Package vectorstore defines the similarity search abstraction over
// embedded document chunks.
//
// Two implementations are provided:
//
//   - vectorstore/memory: an in-process store backed by a brute-force
//     cosine scan, suitable for tests and small corpora
//   - vectorstore/qdrant: a Qdrant-backed store over gRPC for production
//     deployments
//
// Stores deal purely in vectors; generating embeddings for documents and
// queries is the caller's concern. Relevance scores returned from Search are
// cosine similarities, so both implementations rank identically for the
// same inputs.
package vectorstore
