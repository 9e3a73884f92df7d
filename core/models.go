package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persistent graph records.
// It is generated from record content using BLAKE2b hashing, so the
// same entity or relation always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FingerprintFromContent returns the short hex form of a content hash,
// used for document ids derived from file identity ("doc_" + 8 hex chars).
func FingerprintFromContent(text string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return fmt.Sprintf("%x", h.Sum(nil)[:4])
}

// EntityTypeDocument is the entity type for per-document graph nodes.
// Extracted entities are attached to their document node with a
// RelationContains relation.
const EntityTypeDocument = "DOCUMENT"

// EntityTypeConcept is the default type for entities extracted from
// document text when the extractor does not assign one.
const EntityTypeConcept = "CONCEPT"

// Relation types produced by ingestion and graph lookups.
const (
	RelationContains     = "CONTAINS"
	RelationRelatedTo    = "RELATED_TO"
	RelationKeywordMatch = "KEYWORD_MATCH"
)

// DocumentChunk is one bounded, overlap-stitched span of a document's
// text, the unit of retrieval. Chunks are immutable once created and
// owned by the ingestion caller until handed to the vector store.
type DocumentChunk struct {
	DocID      string
	ChunkID    string // unique within DocID, sequential: chunk_0000, chunk_0001, ...
	Content    string
	Metadata   map[string]string
	ChunkIndex int
	PageNumber int // 0 when unknown
}

// RetrievedSource is a per-query retrieval hit. Produced transiently by
// retrieval fusion, never persisted.
type RetrievedSource struct {
	DocID          string
	Title          string // optional, from chunk metadata
	ChunkText      string
	RelevanceScore float32 // higher is better; 1 - cosine distance
	Metadata       map[string]string
}

// EntityRelation is a transient graph lookup or keyword match result.
type EntityRelation struct {
	EntityName        string
	RelationshipLabel string
	TargetEntity      string  // optional
	Context           string  // optional
	Confidence        float32 // optional, 0 when unknown
}

// ResearchQuery is a caller-supplied question, validated at the boundary.
type ResearchQuery struct {
	Question        string
	TopK            int // bounded 1..20; DefaultTopK when zero
	IncludeEntities bool
}

// ResearchResponse is the answer to one ResearchQuery.
//
// Sources are ordered by descending relevance score as returned by the
// vector store. RelatedEntities are deduplicated by case-insensitive
// entity name, first occurrence wins.
type ResearchResponse struct {
	Answer          string
	Sources         []RetrievedSource
	RelatedEntities []EntityRelation
	ProcessingTime  time.Duration
	Degraded        bool // true when the answer came from the fallback generator
}

// DefaultTopK is the number of sources retrieved when a query does not
// specify one.
const DefaultTopK = 5

// MaxTopK bounds how many sources a single query may request.
const MaxTopK = 20

// IngestReport accumulates the outcome of one ingestion call. Counts are
// best-effort: a document whose entity extraction failed still has its
// chunks in the vector store, and its failure is captured instead of
// aborting the remaining documents.
type IngestReport struct {
	DocID           string
	ChunksProcessed int
	EntitiesAdded   int
	Failures        []DocumentFailure
}

// DocumentFailure records a per-document enrichment failure during ingestion.
type DocumentFailure struct {
	DocID string
	Err   error
}

// Entity is a persistent node in the entity graph.
type Entity struct {
	Id         ID
	Name       string
	Type       string
	Properties map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Tuple returns a string representation of the entity as "(Type,Name)".
func (e *Entity) Tuple() string {
	return "(" + e.Type + "," + e.Name + ")"
}

// Relation is a persistent typed edge between two entities.
type Relation struct {
	Id         ID
	SourceId   ID
	TargetId   ID
	Type       string
	Properties map[string]string
	InsertedAt time.Time
}

// DocumentRecord is the registry entry for an ingested document. It backs
// document listing, watcher change detection, and stats.
type DocumentRecord struct {
	DocID       string
	Source      string // file path or caller-supplied origin
	Title       string
	Fingerprint string // content/identity hash, compared on re-ingest
	ChunkCount  int
	EntityCount int
	IngestedAt  time.Time
	UpdatedAt   time.Time
}
