package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
)

// DocumentRepository implements graph.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ graph.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// Ping delegates to the backend.
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutDocument inserts or replaces the registry record for a document.
func (r *DocumentRepository) PutDocument(ctx context.Context, record *core.DocumentRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(record.DocID)
		if err := tx.Set(key, graph.MarshalDocumentRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a registry record by document id.
func (r *DocumentRepository) GetDocument(ctx context.Context, docID string) (*core.DocumentRecord, error) {
	var result *core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(docID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return graph.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = graph.UnmarshalDocumentRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDocument removes the registry record. Reports whether the
// document was registered.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	var existed bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(docID)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		existed = true
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return false, err
	}
	return existed, nil
}

// ListDocuments returns all registry records ordered by document id.
// Keys sort lexicographically, so a prefix scan yields them in order.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.DocumentRecord, error) {
	var results []*core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(documentRecordPrefix + ":")
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !hasPrefix(item.Key(), prefix) {
				break
			}

			var record *core.DocumentRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = graph.UnmarshalDocumentRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}
