package graph

import (
	"context"

	"github.com/poiesic/scholar/core"
)

// Repository provides common operations shared across graph repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Ping verifies the store is open and reachable. Callers treat a
	// failing Ping as the degraded state: entity augmentation is
	// skipped, never failed.
	Ping(ctx context.Context) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// EntityRepository provides operations for managing graph entities and
// their typed relations.
type EntityRepository interface {
	Repository

	// UpsertEntity creates the entity or merges properties into an
	// existing one with the same name and type. IDs are content-based
	// (IDFromContent of the entity tuple), so repeated upserts of the
	// same entity are idempotent. Reports whether a new node was
	// created.
	UpsertEntity(ctx context.Context, name, entityType string, properties map[string]string) (*core.Entity, bool, error)

	// UpsertRelation creates a typed relation between two entities
	// identified by name. Returns ErrEntityNotFound if either endpoint
	// does not exist. Reports whether a new relation was created.
	UpsertRelation(ctx context.Context, sourceName, targetName, relationType string, properties map[string]string) (*core.Relation, bool, error)

	// DeleteEntity removes an entity by name together with all its
	// incident relations. Reports whether the entity existed.
	DeleteEntity(ctx context.Context, name string) (bool, error)

	// Neighbors returns entities reachable from the named entity within
	// maxDepth hops, ordered by depth then name, capped at 20. The
	// relationship label is taken from the first hop of the path.
	// An unknown entity name yields an empty result, not an error.
	Neighbors(ctx context.Context, entityName string, maxDepth int) ([]core.EntityRelation, error)

	// MatchKeywords returns entities whose name contains any of the
	// keywords, case-insensitive, ordered by name, capped at 10.
	MatchKeywords(ctx context.Context, keywords []string) ([]core.EntityRelation, error)

	// Stats summarizes the graph contents.
	Stats(ctx context.Context) (*Stats, error)
}

// DocumentRepository is the registry of ingested documents. It backs
// document listing, watcher change detection, and deletion.
type DocumentRepository interface {
	Repository

	// PutDocument inserts or replaces the registry record for a document.
	PutDocument(ctx context.Context, record *core.DocumentRecord) error

	// GetDocument retrieves a registry record by document id.
	// Returns ErrNotFound if the document is not registered.
	GetDocument(ctx context.Context, docID string) (*core.DocumentRecord, error)

	// DeleteDocument removes the registry record. Reports whether the
	// document was registered.
	DeleteDocument(ctx context.Context, docID string) (bool, error)

	// ListDocuments returns all registry records ordered by document id.
	ListDocuments(ctx context.Context) ([]*core.DocumentRecord, error)
}

// Stats summarizes the entity graph for health and stats reporting.
type Stats struct {
	Nodes         int
	Relationships int
	TypeHistogram map[string]int // entity type -> node count
}
