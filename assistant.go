// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scholar

import (
	"context"
	"log/slog"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/ai/openai"
	"github.com/poiesic/scholar/chunk"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	"github.com/poiesic/scholar/graph/badger"
	"github.com/poiesic/scholar/ingestion"
	"github.com/poiesic/scholar/search"
	"github.com/poiesic/scholar/vectorstore"
	"github.com/poiesic/scholar/vectorstore/memory"
)

// Assistant wires the stores, the AI provider, the query pipeline, and
// the ingestor into one research assistant instance. It owns the graph
// backend's lifecycle; the vector store is owned here too unless one
// was injected.
type Assistant struct {
	backend   *badger.Backend
	entities  graph.EntityRepository
	documents graph.DocumentRepository
	store     vectorstore.VectorStore
	provider  ai.AIProvider
	pipeline  *search.Pipeline
	ingestor  *ingestion.Ingestor
	logger    *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	store     vectorstore.VectorStore
	inMemory  bool
	chunkOpts []chunk.Option
}

// WithAIConfig supplies the AI service configuration used to construct
// the default provider. Ignored when WithAIProvider is also given.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider instead of
// constructing one from configuration. Used by tests to substitute
// mocks and by callers with their own provider wiring.
func WithAIProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithVectorStore injects the vector store. Default is the in-process
// memory store; pass a qdrant store for persistent deployments.
func WithVectorStore(store vectorstore.VectorStore) AssistantOption {
	return func(o *assistantOptions) {
		o.store = store
	}
}

// WithInMemoryGraph keeps the entity graph in memory instead of on
// disk. The graph path is ignored.
func WithInMemoryGraph() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// WithChunking configures the chunker used during ingestion.
func WithChunking(opts ...chunk.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.chunkOpts = opts
	}
}

// NewAssistant opens the graph store at graphPath and assembles the
// full stack around it.
func NewAssistant(graphPath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(graphPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	entities, err := badger.NewEntityRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		entities.Close()
		backend.Close()
		return nil, err
	}

	store := options.store
	if store == nil {
		store = memory.NewStore()
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			documents.Close()
			entities.Close()
			backend.Close()
			return nil, err
		}
	}

	retriever, err := search.NewRetriever(store, entities, provider)
	if err != nil {
		provider.Close()
		documents.Close()
		entities.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := search.NewPipeline(retriever, provider.Generator())
	if err != nil {
		provider.Close()
		documents.Close()
		entities.Close()
		backend.Close()
		return nil, err
	}

	ingestor, err := ingestion.NewIngestor(store, entities, documents, provider,
		ingestion.WithChunker(chunk.NewChunker(options.chunkOpts...)))
	if err != nil {
		provider.Close()
		documents.Close()
		entities.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:   backend,
		entities:  entities,
		documents: documents,
		store:     store,
		provider:  provider,
		pipeline:  pipeline,
		ingestor:  ingestor,
		logger:    slog.Default(),
	}, nil
}

// Query answers a research question through the full pipeline.
func (a *Assistant) Query(ctx context.Context, query *core.ResearchQuery) (*core.ResearchResponse, error) {
	return a.pipeline.ProcessQuery(ctx, query)
}

// Ingest chunks, embeds, and stores one document's text.
func (a *Assistant) Ingest(ctx context.Context, docID, text string, metadata map[string]string) (*core.IngestReport, error) {
	return a.ingestor.IngestText(ctx, docID, text, metadata)
}

// IngestFile loads and ingests a supported file.
func (a *Assistant) IngestFile(ctx context.Context, path string) (*core.IngestReport, error) {
	return a.ingestor.IngestFile(ctx, path)
}

// DeleteDocument removes a document from the vector store, the entity
// graph, and the document registry.
func (a *Assistant) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	return a.ingestor.DeleteDocument(ctx, docID)
}

// Documents lists the registered documents.
func (a *Assistant) Documents(ctx context.Context) ([]*core.DocumentRecord, error) {
	return a.documents.ListDocuments(ctx)
}

// GraphStats summarizes the entity graph.
func (a *Assistant) GraphStats(ctx context.Context) (*graph.Stats, error) {
	return a.entities.Stats(ctx)
}

// GeneratorConfigured reports whether a primary generation backend is
// available. Without one every answer comes from the fallback
// generator.
func (a *Assistant) GeneratorConfigured() bool {
	return a.provider.Generator() != nil
}

// Pipeline exposes the query pipeline for transports built on top.
func (a *Assistant) Pipeline() *search.Pipeline {
	return a.pipeline
}

// Ingestor exposes the ingestor for transports and watchers.
func (a *Assistant) Ingestor() *ingestion.Ingestor {
	return a.ingestor
}

// VectorStore exposes the vector store.
func (a *Assistant) VectorStore() vectorstore.VectorStore {
	return a.store
}

// EntityRepository exposes the entity graph.
func (a *Assistant) EntityRepository() graph.EntityRepository {
	return a.entities
}

// DocumentRepository exposes the document registry.
func (a *Assistant) DocumentRepository() graph.DocumentRepository {
	return a.documents
}

// Close releases every component the assistant owns.
func (a *Assistant) Close() error {
	a.ingestor.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing vector store", "err", err)
	}

	if err := a.documents.Close(); err != nil {
		a.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := a.entities.Close(); err != nil {
		a.logger.Error("error closing entity repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing graph backend", "err", err)
		return err
	}
	return nil
}
