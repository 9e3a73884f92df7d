package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/scholar/core"
)

// Key prefixes for different data types
const (
	entityRecordPrefix   = "entrec"
	entityNamePrefix     = "entname"
	relationRecordPrefix = "relrec"
	relationSourcePrefix = "relsrc"
	relationTargetPrefix = "reltgt"
	documentRecordPrefix = "docrec"
)

// makeEntityKey generates a key for an entity by ID.
func makeEntityKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entityRecordPrefix, id))
}

// makeEntityNameKey generates a key for the entity name index.
// The index maps a name to the entity ID, one entry per name. Upserting
// the same name under a different type repoints the entry.
func makeEntityNameKey(name string) []byte {
	return []byte(entityNamePrefix + ":" + name)
}

// makeRelationKey generates a key for a relation by ID.
func makeRelationKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", relationRecordPrefix, id))
}

// makeRelationSourceKey generates a composite key for the outgoing
// adjacency index. Format: prefix:sourceID:targetID:relationID
func makeRelationSourceKey(sourceID, targetID, relationID core.ID) []byte {
	prefix := relationSourcePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for sourceID, targetID, relationID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sourceID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(targetID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(relationID))
	return buf
}

// makePartialRelationSourceKey generates a partial key for scanning all
// relations leaving an entity. Format: prefix:sourceID
func makePartialRelationSourceKey(sourceID core.ID) []byte {
	prefix := relationSourcePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for sourceID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sourceID))
	return buf
}

// makeRelationTargetKey generates a composite key for the incoming
// adjacency index. Format: prefix:targetID:sourceID:relationID
func makeRelationTargetKey(targetID, sourceID, relationID core.ID) []byte {
	prefix := relationTargetPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for targetID, sourceID, relationID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(targetID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(sourceID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(relationID))
	return buf
}

// makePartialRelationTargetKey generates a partial key for scanning all
// relations arriving at an entity. Format: prefix:targetID
func makePartialRelationTargetKey(targetID core.ID) []byte {
	prefix := relationTargetPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for targetID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(targetID))
	return buf
}

// parseAdjacencyKey extracts the neighbor and relation IDs from a full
// adjacency key. The last 16 bytes hold the neighbor ID followed by the
// relation ID, regardless of direction.
func parseAdjacencyKey(key []byte) (neighborID, relationID core.ID, ok bool) {
	if len(key) < 16 {
		return 0, 0, false
	}
	neighborID = core.ID(binary.BigEndian.Uint64(key[len(key)-16:]))
	relationID = core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
	return neighborID, relationID, true
}

// makeDocumentKey generates a key for a document registry record.
// Document IDs sort lexicographically, so prefix scans list in order.
func makeDocumentKey(docID string) []byte {
	return []byte(documentRecordPrefix + ":" + docID)
}
