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

package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/vectorstore"
)

const (
	// DefaultCollection is the Qdrant collection holding document chunks.
	DefaultCollection = "research_documents"

	// DefaultVectorSize matches the embeddinggemma output dimension.
	DefaultVectorSize = 768

	scrollPageSize = 256
)

// Store is a vector store backed by a Qdrant server over gRPC. The
// collection is created on first use with cosine distance, so reported
// scores are cosine similarities and rank identically to the in-memory
// store.
type Store struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	vectorSize  uint64
	logger      *slog.Logger
}

var _ vectorstore.VectorStore = (*Store)(nil)

// Option configures a Store before it connects.
type Option func(*Store)

// WithCollection overrides the collection name.
func WithCollection(name string) Option {
	return func(s *Store) {
		s.collection = name
	}
}

// WithVectorSize overrides the vector dimension used when the
// collection has to be created.
func WithVectorSize(size uint64) Option {
	return func(s *Store) {
		s.vectorSize = size
	}
}

// NewStore connects to a Qdrant server at addr (host:port of the gRPC
// endpoint) and ensures the collection exists.
func NewStore(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("qdrant address is required")
	}

	store := &Store{
		collection: DefaultCollection,
		vectorSize: DefaultVectorSize,
		logger:     slog.Default().With("component", "vectorstore"),
	}
	for _, opt := range opts {
		opt(store)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant at %s: %w", addr, err)
	}
	store.conn = conn
	store.collections = qdrantclient.NewCollectionsClient(conn)
	store.points = qdrantclient.NewPointsClient(conn)

	if err := store.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	store.logger.Info("connected to qdrant", "addr", addr, "collection", store.collection)
	return store, nil
}

// ensureCollection creates the collection if the server does not have
// it yet. An existing collection is left untouched, whatever its
// parameters.
func (s *Store) ensureCollection(ctx context.Context) error {
	resp, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, col := range resp.GetCollections() {
		if col.GetName() == s.collection {
			return nil
		}
	}

	s.logger.Info("creating collection", "name", s.collection, "vector_size", s.vectorSize)
	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     s.vectorSize,
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert writes points, overwriting any existing point with the same
// document and chunk id. An empty batch is a no-op.
func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrantclient.PointStruct, 0, len(points))
	for _, p := range points {
		if len(p.Vector) == 0 {
			return vectorstore.ErrEmptyVector
		}
		structs = append(structs, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Num{
					Num: pointID(p.Chunk),
				},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{
						Data: p.Vector,
					},
				},
			},
			Payload: valuePayload(vectorstore.PayloadFromChunk(p.Chunk)),
		})
	}

	wait := true
	_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	s.logger.Debug("upserted points", "count", len(points))
	return nil
}

// Search returns up to limit sources ordered by descending cosine
// similarity to the query vector.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]core.RetrievedSource, error) {
	if limit <= 0 {
		return nil, vectorstore.ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, vectorstore.ErrEmptyVector
	}

	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{
				Enable: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]core.RetrievedSource, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		payload := stringPayload(point.GetPayload())
		results = append(results, vectorstore.SourceFromPayload(payload, point.GetScore()))
	}
	return results, nil
}

// DeleteDocument removes every chunk of the given document. It reports
// whether anything was removed.
func (s *Store) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	filter := docFilter(docID)

	exact := true
	countResp, err := s.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: s.collection,
		Filter:         filter,
		Exact:          &exact,
	})
	if err != nil {
		return false, fmt.Errorf("failed to count points for %s: %w", docID, err)
	}
	if countResp.GetResult().GetCount() == 0 {
		return false, nil
	}

	wait := true
	_, err = s.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete points for %s: %w", docID, err)
	}

	s.logger.Debug("deleted document", "doc_id", docID, "chunks", countResp.GetResult().GetCount())
	return true, nil
}

// CountChunks returns the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// ListDocuments scrolls the whole collection and returns the distinct
// document ids, sorted.
func (s *Store) ListDocuments(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	limit := uint32(scrollPageSize)
	var offset *qdrantclient.PointId
	for {
		resp, err := s.points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &qdrantclient.WithPayloadSelector{
				SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
					Include: &qdrantclient.PayloadIncludeSelector{
						Fields: []string{"doc_id"},
					},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scroll points: %w", err)
		}

		for _, point := range resp.GetResult() {
			if v, ok := point.GetPayload()["doc_id"]; ok {
				seen[v.GetStringValue()] = struct{}{}
			}
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	docs := make([]string, 0, len(seen))
	for doc := range seen {
		docs = append(docs, doc)
	}
	slices.Sort(docs)
	return docs, nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// pointID derives a stable numeric point id from the chunk identity,
// so re-ingesting a document overwrites its points in place.
func pointID(chunk core.DocumentChunk) uint64 {
	return uint64(core.IDFromContent(chunk.DocID + "_" + chunk.ChunkID))
}

func docFilter(docID string) *qdrantclient.Filter {
	return &qdrantclient.Filter{
		Must: []*qdrantclient.Condition{{
			ConditionOneOf: &qdrantclient.Condition_Field{
				Field: &qdrantclient.FieldCondition{
					Key: "doc_id",
					Match: &qdrantclient.Match{
						MatchValue: &qdrantclient.Match_Keyword{
							Keyword: docID,
						},
					},
				},
			},
		}},
	}
}

func valuePayload(payload map[string]string) map[string]*qdrantclient.Value {
	values := make(map[string]*qdrantclient.Value, len(payload))
	for k, v := range payload {
		values[k] = &qdrantclient.Value{
			Kind: &qdrantclient.Value_StringValue{StringValue: v},
		}
	}
	return values
}

func stringPayload(values map[string]*qdrantclient.Value) map[string]string {
	payload := make(map[string]string, len(values))
	for k, v := range values {
		if sv, ok := v.GetKind().(*qdrantclient.Value_StringValue); ok {
			payload[k] = sv.StringValue
		}
	}
	return payload
}
