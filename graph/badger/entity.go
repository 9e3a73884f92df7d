package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
)

// maxKeywordMatches bounds how many entities a keyword lookup returns.
const maxKeywordMatches = 10

// EntityRepository implements graph.EntityRepository for BadgerDB.
type EntityRepository struct {
	backend *Backend
}

var _ graph.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(backend *Backend) (*EntityRepository, error) {
	return &EntityRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EntityRepository has no resources to release.
func (r *EntityRepository) Close() error {
	return nil
}

// Ping delegates to the backend.
func (r *EntityRepository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}

// WithTransaction delegates to the backend.
func (r *EntityRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertEntity creates an entity or merges properties into an existing
// one with the same name and type. The ID is content-based, so repeated
// upserts of the same tuple hit the same record.
func (r *EntityRepository) UpsertEntity(ctx context.Context, name, entityType string, properties map[string]string) (*core.Entity, bool, error) {
	var result *core.Entity
	var created bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entity := &core.Entity{
			Name: name,
			Type: entityType,
		}
		entity.Id = core.IDFromContent(entity.Tuple())

		existing, err := readEntity(tx, makeEntityKey(entity.Id))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if existing == nil {
			created = true
			if len(properties) > 0 {
				entity.Properties = make(map[string]string, len(properties))
				for k, v := range properties {
					entity.Properties[k] = v
				}
			}
			entity.InsertedAt = now
			entity.UpdatedAt = now
		} else {
			entity = existing
			if len(properties) > 0 && entity.Properties == nil {
				entity.Properties = make(map[string]string, len(properties))
			}
			for k, v := range properties {
				entity.Properties[k] = v
			}
			entity.UpdatedAt = now
		}

		if err := tx.Set(makeEntityKey(entity.Id), graph.MarshalEntity(entity)); err != nil {
			return err
		}
		if err := tx.Set(makeEntityNameKey(name), graph.MarshalID(entity.Id)); err != nil {
			return err
		}

		result = entity
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// UpsertRelation creates a typed relation between two entities identified
// by name. Returns graph.ErrEntityNotFound if either endpoint is missing.
func (r *EntityRepository) UpsertRelation(ctx context.Context, sourceName, targetName, relationType string, properties map[string]string) (*core.Relation, bool, error) {
	var result *core.Relation
	var created bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		sourceID, found, err := readEntityIDByName(tx, sourceName)
		if err != nil {
			return err
		}
		if !found {
			return graph.ErrEntityNotFound
		}

		targetID, found, err := readEntityIDByName(tx, targetName)
		if err != nil {
			return err
		}
		if !found {
			return graph.ErrEntityNotFound
		}

		relationID := core.IDFromContent(fmt.Sprintf("(%d,%d,%s)", sourceID, targetID, relationType))

		existing, err := readRelation(tx, makeRelationKey(relationID))
		if err != nil {
			return err
		}

		if existing == nil {
			created = true
			relation := &core.Relation{
				Id:         relationID,
				SourceId:   sourceID,
				TargetId:   targetID,
				Type:       relationType,
				InsertedAt: time.Now().UTC(),
			}
			if len(properties) > 0 {
				relation.Properties = make(map[string]string, len(properties))
				for k, v := range properties {
					relation.Properties[k] = v
				}
			}

			if err := tx.Set(makeRelationKey(relationID), graph.MarshalRelation(relation)); err != nil {
				return err
			}
			// Index both directions so traversal can walk edges undirected
			if err := tx.Set(makeRelationSourceKey(sourceID, targetID, relationID), nil); err != nil {
				return err
			}
			if err := tx.Set(makeRelationTargetKey(targetID, sourceID, relationID), nil); err != nil {
				return err
			}
			result = relation
		} else {
			if len(properties) > 0 && existing.Properties == nil {
				existing.Properties = make(map[string]string, len(properties))
			}
			for k, v := range properties {
				existing.Properties[k] = v
			}
			if err := tx.Set(makeRelationKey(relationID), graph.MarshalRelation(existing)); err != nil {
				return err
			}
			result = existing
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// DeleteEntity removes an entity by name together with all its incident
// relations. Reports whether the entity existed.
func (r *EntityRepository) DeleteEntity(ctx context.Context, name string) (bool, error) {
	var existed bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, found, err := readEntityIDByName(tx, name)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		existed = true

		outgoing, err := scanAdjacency(tx, makePartialRelationSourceKey(id))
		if err != nil {
			return err
		}
		incoming, err := scanAdjacency(tx, makePartialRelationTargetKey(id))
		if err != nil {
			return err
		}

		for _, edge := range outgoing {
			if err := tx.Delete(makeRelationKey(edge.relationID)); err != nil {
				return err
			}
			if err := tx.Delete(makeRelationSourceKey(id, edge.neighborID, edge.relationID)); err != nil {
				return err
			}
			if err := tx.Delete(makeRelationTargetKey(edge.neighborID, id, edge.relationID)); err != nil {
				return err
			}
		}
		for _, edge := range incoming {
			if err := tx.Delete(makeRelationKey(edge.relationID)); err != nil {
				return err
			}
			if err := tx.Delete(makeRelationSourceKey(edge.neighborID, id, edge.relationID)); err != nil {
				return err
			}
			if err := tx.Delete(makeRelationTargetKey(id, edge.neighborID, edge.relationID)); err != nil {
				return err
			}
		}

		if err := tx.Delete(makeEntityNameKey(name)); err != nil {
			return err
		}
		if err := tx.Delete(makeEntityKey(id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return false, err
	}
	return existed, nil
}

// MatchKeywords returns entities whose name contains any of the keywords,
// case-insensitive, ordered by name, capped at 10.
func (r *EntityRepository) MatchKeywords(ctx context.Context, keywords []string) ([]core.EntityRelation, error) {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(kw))
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	var results []core.EntityRelation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(entityRecordPrefix + ":")
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !hasPrefix(item.Key(), prefix) {
				break
			}

			var entity *core.Entity
			err := item.Value(func(val []byte) error {
				var err error
				entity, err = graph.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity == nil {
				continue
			}

			nameLower := strings.ToLower(entity.Name)
			for _, kw := range lowered {
				if strings.Contains(nameLower, kw) {
					results = append(results, core.EntityRelation{
						EntityName:        entity.Name,
						RelationshipLabel: core.RelationKeywordMatch,
						Context:           "Entity type: " + entity.Type,
					})
					break
				}
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].EntityName < results[j].EntityName
	})
	if len(results) > maxKeywordMatches {
		results = results[:maxKeywordMatches]
	}
	return results, nil
}

// Stats summarizes the graph contents. Relations are counted once each,
// not once per direction.
func (r *EntityRepository) Stats(ctx context.Context) (*graph.Stats, error) {
	stats := &graph.Stats{
		TypeHistogram: make(map[string]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		entityPrefix := []byte(entityRecordPrefix + ":")
		for iter.Seek(entityPrefix); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !hasPrefix(item.Key(), entityPrefix) {
				break
			}

			var entity *core.Entity
			err := item.Value(func(val []byte) error {
				var err error
				entity, err = graph.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity == nil {
				continue
			}

			stats.Nodes++
			stats.TypeHistogram[entity.Type]++
		}

		relationPrefix := []byte(relationRecordPrefix + ":")
		for iter.Seek(relationPrefix); iter.Valid(); iter.Next() {
			if !hasPrefix(iter.Item().Key(), relationPrefix) {
				break
			}
			stats.Relationships++
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Helper methods

// adjacencyEdge is one entry scanned from an adjacency index.
type adjacencyEdge struct {
	neighborID core.ID
	relationID core.ID
}

// scanAdjacency collects all adjacency entries under a partial key.
func scanAdjacency(tx *badger.Txn, partial []byte) ([]adjacencyEdge, error) {
	var edges []adjacencyEdge

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Seek(partial); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if !hasPrefix(key, partial) {
			break
		}
		neighborID, relationID, ok := parseAdjacencyKey(key)
		if !ok {
			continue
		}
		edges = append(edges, adjacencyEdge{neighborID: neighborID, relationID: relationID})
	}
	return edges, nil
}

// hasPrefix checks if a byte slice has a given prefix
func hasPrefix(s, prefix []byte) bool {
	return len(s) >= len(prefix) && string(s[:len(prefix)]) == string(prefix)
}

// readEntity reads an entity from the transaction.
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = graph.UnmarshalEntity(val)
		return err
	})
	return entity, err
}

// readRelation reads a relation from the transaction.
func readRelation(tx *badger.Txn, key []byte) (*core.Relation, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var relation *core.Relation
	err = item.Value(func(val []byte) error {
		var err error
		relation, err = graph.UnmarshalRelation(val)
		return err
	})
	return relation, err
}

// readEntityIDByName resolves an entity ID through the name index.
func readEntityIDByName(tx *badger.Txn, name string) (core.ID, bool, error) {
	item, err := tx.Get(makeEntityNameKey(name))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = graph.UnmarshalID(val)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
