package core

import (
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   *ResearchQuery
		wantErr error
	}{
		{
			name: "valid query",
			query: &ResearchQuery{
				Question: "What is CRISPR?",
				TopK:     5,
			},
			wantErr: nil,
		},
		{
			name: "valid query with default top_k",
			query: &ResearchQuery{
				Question: "What is CRISPR?",
			},
			wantErr: nil,
		},
		{
			name: "valid query at max top_k",
			query: &ResearchQuery{
				Question: "What is CRISPR?",
				TopK:     MaxTopK,
			},
			wantErr: nil,
		},
		{
			name:    "nil query",
			query:   nil,
			wantErr: ErrInvalidQuery,
		},
		{
			name: "empty question",
			query: &ResearchQuery{
				Question: "",
			},
			wantErr: ErrEmptyQuestion,
		},
		{
			name: "whitespace question",
			query: &ResearchQuery{
				Question: "   \t\n",
			},
			wantErr: ErrEmptyQuestion,
		},
		{
			name: "top_k too large",
			query: &ResearchQuery{
				Question: "What is CRISPR?",
				TopK:     21,
			},
			wantErr: ErrTopKOutOfRange,
		},
		{
			name: "top_k negative",
			query: &ResearchQuery{
				Question: "What is CRISPR?",
				TopK:     -1,
			},
			wantErr: ErrTopKOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuery() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *DocumentChunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &DocumentChunk{
				DocID:   "doc_ab12cd34",
				ChunkID: "chunk_0000",
				Content: "Cats are mammals.",
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "missing doc id",
			chunk: &DocumentChunk{
				ChunkID: "chunk_0000",
				Content: "Cats are mammals.",
			},
			wantErr: ErrEmptyDocID,
		},
		{
			name: "missing chunk id",
			chunk: &DocumentChunk{
				DocID:   "doc_ab12cd34",
				Content: "Cats are mammals.",
			},
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty content",
			chunk: &DocumentChunk{
				DocID:   "doc_ab12cd34",
				ChunkID: "chunk_0000",
			},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name: "valid entity",
			entity: &Entity{
				Name: "CRISPR",
				Type: "TECHNOLOGY",
			},
			wantErr: nil,
		},
		{
			name: "valid entity with ID 0",
			entity: &Entity{
				Id:   0,
				Name: "CRISPR",
				Type: "TECHNOLOGY",
			},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name: "empty name",
			entity: &Entity{
				Type: "TECHNOLOGY",
			},
			wantErr: ErrEmptyEntityName,
		},
		{
			name: "empty type",
			entity: &Entity{
				Name: "CRISPR",
			},
			wantErr: ErrEmptyEntityType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelation(t *testing.T) {
	tests := []struct {
		name     string
		relation *Relation
		wantErr  error
	}{
		{
			name: "valid relation",
			relation: &Relation{
				SourceId: 1,
				TargetId: 2,
				Type:     RelationContains,
			},
			wantErr: nil,
		},
		{
			name:     "nil relation",
			relation: nil,
			wantErr:  ErrInvalidRelation,
		},
		{
			name: "zero source",
			relation: &Relation{
				TargetId: 2,
				Type:     RelationContains,
			},
			wantErr: ErrInvalidRelation,
		},
		{
			name: "empty type",
			relation: &Relation{
				SourceId: 1,
				TargetId: 2,
			},
			wantErr: ErrEmptyRelationType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelation(tt.relation)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRelation() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRelation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
