// Package qdrant provides a vector store backed by a Qdrant server,
// spoken to over its gRPC API. Point ids are derived from chunk
// identity so re-ingesting a document overwrites its points rather
// than duplicating them, and the collection uses cosine distance so
// scores agree with the in-memory store.
//
// The server address is the gRPC endpoint (default port 6334), not the
// HTTP one:
//
//	store, err := qdrant.NewStore(ctx, "localhost:6334",
//		qdrant.WithCollection("research_documents"),
//	)
package qdrant
