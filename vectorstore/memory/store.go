// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/vectorstore"
)

// Store is an in-process vector store. Vectors are normalized on write
// so that search reduces to a dot product scan. All operations are safe
// for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry // keyed by docID + "_" + chunkID
	dim     int              // fixed by the first upsert
	logger  *slog.Logger
}

type entry struct {
	vector []float32 // unit length
	chunk  core.DocumentChunk
}

var _ vectorstore.VectorStore = (*Store)(nil)

// NewStore creates an empty in-memory store. The vector dimension is
// fixed by the first point written.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		logger:  slog.Default().With("component", "vectorstore"),
	}
}

// Upsert writes points, overwriting any existing point with the same
// document and chunk id. An empty batch is a no-op.
func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if len(p.Vector) == 0 {
			return vectorstore.ErrEmptyVector
		}
		if s.dim == 0 {
			s.dim = len(p.Vector)
		} else if len(p.Vector) != s.dim {
			return vectorstore.ErrDimensionMismatch
		}

		key := p.Chunk.DocID + "_" + p.Chunk.ChunkID
		s.entries[key] = entry{
			vector: normalize(p.Vector),
			chunk:  p.Chunk,
		}
	}

	s.logger.Debug("upserted points", "count", len(points), "total", len(s.entries))
	return nil
}

// Search returns up to limit sources ordered by descending cosine
// similarity to the query vector. An empty store yields no results.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]core.RetrievedSource, error) {
	if limit <= 0 {
		return nil, vectorstore.ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, vectorstore.ErrEmptyVector
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return []core.RetrievedSource{}, nil
	}
	if len(vector) != s.dim {
		return nil, vectorstore.ErrDimensionMismatch
	}

	query := normalize(vector)

	results := make([]core.RetrievedSource, 0, len(s.entries))
	for _, e := range s.entries {
		// Cosine similarity is the dot product for unit vectors.
		score := dotProduct(query, e.vector)
		results = append(results, vectorstore.SourceFromChunk(e.chunk, score))
	}

	slices.SortFunc(results, func(a, b core.RetrievedSource) int {
		if a.RelevanceScore > b.RelevanceScore {
			return -1
		}
		if a.RelevanceScore < b.RelevanceScore {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteDocument removes every chunk of the given document. It reports
// whether anything was removed.
func (s *Store) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.chunk.DocID == docID {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("deleted document", "doc_id", docID, "chunks", removed)
	}
	return removed > 0, nil
}

// CountChunks returns the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// ListDocuments returns the distinct document ids, sorted.
func (s *Store) ListDocuments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	docs := make([]string, 0)
	for _, e := range s.entries {
		if _, ok := seen[e.chunk.DocID]; ok {
			continue
		}
		seen[e.chunk.DocID] = struct{}{}
		docs = append(docs, e.chunk.DocID)
	}
	slices.Sort(docs)
	return docs, nil
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() error {
	return nil
}

// normalize returns a unit-length copy of v. A zero vector normalizes
// to a zero vector.
func normalize(v []float32) []float32 {
	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
