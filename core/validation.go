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


package core

import (
	"fmt"
	"strings"
)

// ValidateQuery validates a ResearchQuery according to boundary rules.
//
// Validation rules:
//   - Question must not be empty or whitespace-only
//   - TopK must be 0 (take the default) or within 1..MaxTopK
//
// NOT validated:
//   - IncludeEntities (both values are legal)
func ValidateQuery(query *ResearchQuery) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if strings.TrimSpace(query.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQuestion)
	}

	if query.TopK != 0 && (query.TopK < 1 || query.TopK > MaxTopK) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidQuery, ErrTopKOutOfRange, query.TopK)
	}

	return nil
}

// EffectiveTopK resolves the number of sources a query asks for,
// applying DefaultTopK when the caller left TopK unset.
func (q *ResearchQuery) EffectiveTopK() int {
	if q.TopK == 0 {
		return DefaultTopK
	}
	return q.TopK
}

// ValidateChunk validates a DocumentChunk according to domain rules.
//
// Validation rules:
//   - DocID must not be empty
//   - ChunkID must not be empty
//   - Content must not be empty
func ValidateChunk(chunk *DocumentChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.DocID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyDocID)
	}

	if chunk.ChunkID == "" {
		return fmt.Errorf("%w: chunk id cannot be empty", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	return nil
}

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Type must not be empty
//
// NOT validated:
//   - Properties (can be empty)
//   - ID (0 means derive from Tuple on insert)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityName)
	}

	if entity.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityType)
	}

	return nil
}

// ValidateRelation validates a Relation according to domain rules.
//
// Validation rules:
//   - SourceId and TargetId must be non-zero
//   - Type must not be empty
func ValidateRelation(relation *Relation) error {
	if relation == nil {
		return fmt.Errorf("%w: relation is nil", ErrInvalidRelation)
	}

	if relation.SourceId == 0 || relation.TargetId == 0 {
		return fmt.Errorf("%w: endpoints must be non-zero", ErrInvalidRelation)
	}

	if relation.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelation, ErrEmptyRelationType)
	}

	return nil
}
