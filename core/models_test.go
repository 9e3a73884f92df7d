package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestFingerprintFromContent(t *testing.T) {
	fp1 := FingerprintFromContent("report.txt_1700000000_2048")
	fp2 := FingerprintFromContent("report.txt_1700000000_2048")

	if fp1 != fp2 {
		t.Errorf("FingerprintFromContent() not stable: %s vs %s", fp1, fp2)
	}
	if len(fp1) != 8 {
		t.Errorf("FingerprintFromContent() length = %d, want 8", len(fp1))
	}
	if fp1 == FingerprintFromContent("report.txt_1700000001_2048") {
		t.Error("FingerprintFromContent() produced same fingerprint for different identity")
	}
}

func TestEntity_Tuple(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		want   string
	}{
		{
			name: "basic entity",
			entity: Entity{
				Name: "CRISPR",
				Type: "TECHNOLOGY",
			},
			want: "(TECHNOLOGY,CRISPR)",
		},
		{
			name: "entity with spaces",
			entity: Entity{
				Name: "Marie Curie",
				Type: "PERSON",
			},
			want: "(PERSON,Marie Curie)",
		},
		{
			name: "empty entity",
			entity: Entity{
				Name: "",
				Type: "",
			},
			want: "(,)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entity.Tuple()
			if got != tt.want {
				t.Errorf("Entity.Tuple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResearchQuery_EffectiveTopK(t *testing.T) {
	tests := []struct {
		name  string
		query ResearchQuery
		want  int
	}{
		{"zero takes default", ResearchQuery{Question: "q"}, DefaultTopK},
		{"explicit value kept", ResearchQuery{Question: "q", TopK: 3}, 3},
		{"max kept", ResearchQuery{Question: "q", TopK: MaxTopK}, MaxTopK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.EffectiveTopK(); got != tt.want {
				t.Errorf("EffectiveTopK() = %d, want %d", got, tt.want)
			}
		})
	}
}
