package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
)

// maxNeighbors bounds how many related entities a traversal returns.
const maxNeighbors = 20

// discovered is one entity found during breadth-first traversal. The
// firstHop label is the type of the first relation on the path from the
// start entity, inherited by everything found through that relation.
type discovered struct {
	id       core.ID
	depth    int
	firstHop string
}

// Neighbors returns entities reachable from the named entity within
// maxDepth hops, walking relations in both directions. Results are
// ordered by depth then name and capped at 20. An unknown entity name
// yields an empty result, not an error.
func (r *EntityRepository) Neighbors(ctx context.Context, entityName string, maxDepth int) ([]core.EntityRelation, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: %d", graph.ErrInvalidDepth, maxDepth)
	}

	type neighbor struct {
		depth      int
		firstHop   string
		name       string
		entityType string
	}

	var neighbors []neighbor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startID, found, err := readEntityIDByName(tx, entityName)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		hits, err := breadthFirst(tx, startID, maxDepth)
		if err != nil {
			return err
		}

		for _, hit := range hits {
			entity, err := readEntity(tx, makeEntityKey(hit.id))
			if err != nil {
				return err
			}
			if entity == nil {
				continue
			}
			neighbors = append(neighbors, neighbor{
				depth:      hit.depth,
				firstHop:   hit.firstHop,
				name:       entity.Name,
				entityType: entity.Type,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].depth != neighbors[j].depth {
			return neighbors[i].depth < neighbors[j].depth
		}
		return neighbors[i].name < neighbors[j].name
	})
	if len(neighbors) > maxNeighbors {
		neighbors = neighbors[:maxNeighbors]
	}

	results := make([]core.EntityRelation, 0, len(neighbors))
	for _, n := range neighbors {
		label := n.firstHop
		if label == "" {
			label = core.RelationRelatedTo
		}
		results = append(results, core.EntityRelation{
			EntityName:        n.name,
			RelationshipLabel: label,
			Context:           fmt.Sprintf("Entity type: %s, Depth: %d", n.entityType, n.depth),
		})
	}
	return results, nil
}

// breadthFirst walks the adjacency indexes level by level, recording each
// entity at the depth it is first reached. Expansion stops early once a
// completed level has produced enough hits, since deeper entities cannot
// sort ahead of shallower ones.
func breadthFirst(tx *badger.Txn, startID core.ID, maxDepth int) ([]discovered, error) {
	visited := map[core.ID]bool{startID: true}
	frontier := []discovered{{id: startID}}
	var hits []discovered

	for depth := 1; depth <= maxDepth; depth++ {
		var next []discovered
		for _, node := range frontier {
			outgoing, err := scanAdjacency(tx, makePartialRelationSourceKey(node.id))
			if err != nil {
				return nil, err
			}
			incoming, err := scanAdjacency(tx, makePartialRelationTargetKey(node.id))
			if err != nil {
				return nil, err
			}

			for _, edge := range append(outgoing, incoming...) {
				if visited[edge.neighborID] {
					continue
				}
				visited[edge.neighborID] = true

				label := node.firstHop
				if depth == 1 {
					relation, err := readRelation(tx, makeRelationKey(edge.relationID))
					if err != nil {
						return nil, err
					}
					if relation != nil {
						label = relation.Type
					}
				}

				hit := discovered{id: edge.neighborID, depth: depth, firstHop: label}
				next = append(next, hit)
				hits = append(hits, hit)
			}
		}
		frontier = next
		if len(frontier) == 0 || len(hits) >= maxNeighbors {
			break
		}
	}
	return hits, nil
}
