package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	"github.com/poiesic/scholar/vectorstore"
)

const (
	// maxTraversalDepth bounds graph traversal from each entity candidate.
	maxTraversalDepth = 2

	// maxRelatedEntities bounds the fused entity list after dedup.
	maxRelatedEntities = 10
)

// Retriever fuses vector similarity hits with entity graph lookups into
// one context set for prompt construction.
type Retriever struct {
	store     vectorstore.VectorStore
	graph     graph.EntityRepository
	embedder  ai.Embedder
	extractor CandidateExtractor
	logger    *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithExtractor substitutes the candidate extraction strategy.
// Default is HeuristicExtractor.
func WithExtractor(extractor CandidateExtractor) RetrieverOption {
	return func(r *Retriever) error {
		if extractor == nil {
			return ErrExtractorRequired
		}
		r.extractor = extractor
		return nil
	}
}

// NewRetriever creates a retriever. The graph repository may be nil, in
// which case entity augmentation is permanently degraded and every
// query returns an empty entity list.
func NewRetriever(
	store vectorstore.VectorStore,
	entityGraph graph.EntityRepository,
	provider ai.AIProvider,
	opts ...RetrieverOption,
) (*Retriever, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		store:     store,
		graph:     entityGraph,
		embedder:  provider.Embedder(),
		extractor: HeuristicExtractor{},
		logger:    slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve runs the mandatory vector search and, when asked, the
// best-effort graph augmentation. Sources arrive ordered by descending
// relevance as the store returns them; entities are deduplicated by
// case-insensitive name with the first occurrence winning, capped at 10.
//
// Vector search failures propagate. Graph failures do not: an
// unreachable or erroring graph yields an empty entity list.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int, includeEntities bool) ([]core.RetrievedSource, []core.EntityRelation, error) {
	embedding, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, nil, err
	}

	sources, err := r.store.Search(ctx, embedding, topK)
	if err != nil {
		r.logger.Error("error querying vector store", "err", err)
		return nil, nil, err
	}
	r.logger.Debug("retrieved sources", "count", len(sources))

	entities := []core.EntityRelation{}
	if includeEntities {
		entities = r.relatedEntities(ctx, question)
	}

	return sources, entities, nil
}

// relatedEntities gathers graph neighborhoods for each entity candidate
// and keyword matches for the extracted keywords, then fuses them.
// Always succeeds; a degraded graph produces an empty list.
func (r *Retriever) relatedEntities(ctx context.Context, question string) []core.EntityRelation {
	if r.graph == nil {
		return []core.EntityRelation{}
	}
	if err := r.graph.Ping(ctx); err != nil {
		r.logger.Warn("graph store unreachable, skipping entity augmentation", "err", err)
		return []core.EntityRelation{}
	}

	candidates, keywords := r.extractor.ExtractCandidates(question)

	related := make([]core.EntityRelation, 0)
	for _, name := range candidates {
		relations, err := r.graph.Neighbors(ctx, name, maxTraversalDepth)
		if err != nil {
			r.logger.Warn("neighbor lookup failed", "entity", name, "err", err)
			continue
		}
		related = append(related, relations...)
	}

	if len(keywords) > 0 {
		matches, err := r.graph.MatchKeywords(ctx, keywords)
		if err != nil {
			r.logger.Warn("keyword match failed", "keywords", keywords, "err", err)
		} else {
			related = append(related, matches...)
		}
	}

	unique := dedupeEntities(related, maxRelatedEntities)
	r.logger.Debug("fused related entities", "candidates", len(candidates), "keywords", len(keywords), "unique", len(unique))
	return unique
}

// dedupeEntities removes entries whose names differ only by case,
// keeping the first occurrence, and truncates to limit.
func dedupeEntities(relations []core.EntityRelation, limit int) []core.EntityRelation {
	seen := make(map[string]bool, len(relations))
	unique := make([]core.EntityRelation, 0, len(relations))
	for _, relation := range relations {
		key := strings.ToLower(relation.EntityName)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, relation)
		if len(unique) == limit {
			break
		}
	}
	return unique
}
