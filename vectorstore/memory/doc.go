// Package memory provides an in-process vector store backed by a
// brute-force cosine scan. It is the default store for tests, local
// runs, and corpora small enough that an index brings no benefit.
package memory
