// Package chunk splits document text into overlapping passages sized for
// embedding and retrieval.
//
// The Chunker type walks sentence boundaries, packing sentences into a chunk
// until the configured size budget would be exceeded, then carries a short
// word-aligned tail of the closed chunk into the next one so that context is
// not lost at the seam. Fragments too short to carry meaning are discarded
// before packing.
//
// Chunk identifiers are zero-padded and sequential within a document, so the
// original reading order can always be reconstructed from stored chunks.
package chunk
