package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/scholar/core"
)

const (
	// maxPromptSources bounds how many retrieved passages enter the prompt.
	maxPromptSources = 5

	// maxPromptEntities bounds how many graph entities enter the prompt.
	maxPromptEntities = 10
)

var sectionRule = strings.Repeat("─", 50)

// BuildPrompt renders the grounding prompt: instruction preamble, the
// first 5 sources each prefixed with their document id, the first 10
// entities with relationship and context annotations, then the verbatim
// question. Ordering is preserved from retrieval; the builder only
// truncates and formats.
func BuildPrompt(question string, sources []core.RetrievedSource, entities []core.EntityRelation) string {
	parts := []string{
		"You are a research assistant with expertise in academic and scientific literature.",
		"Answer the user's question using the provided context from documents and related entities from the knowledge graph.",
		"Provide accurate, well-structured responses with proper citations.",
		"",
		"IMPORTANT INSTRUCTIONS:",
		"- Use the provided context to answer the question",
		"- Cite sources using [doc_id] format when referencing specific documents",
		"- If the context doesn't contain sufficient information, clearly state this",
		"- Be precise and avoid making unsupported claims",
		"- Structure your response clearly with main points and supporting evidence",
		"",
	}

	if len(sources) > 0 {
		parts = append(parts, "CONTEXT FROM DOCUMENTS:", sectionRule)
		for i, source := range sources {
			if i == maxPromptSources {
				break
			}
			parts = append(parts,
				fmt.Sprintf("[Document %d]", i+1),
				strings.TrimSpace(formatPassage(source)),
				"",
			)
		}
	}

	if len(entities) > 0 {
		parts = append(parts, "RELATED ENTITIES FROM KNOWLEDGE GRAPH:", sectionRule)
		for i, entity := range entities {
			if i == maxPromptEntities {
				break
			}
			parts = append(parts, formatEntity(entity))
		}
		parts = append(parts, "")
	}

	parts = append(parts,
		"USER QUESTION:",
		sectionRule,
		question,
		"",
		"RESPONSE:",
	)

	return strings.Join(parts, "\n")
}

// formatPassage prefixes the chunk text with its document id so the
// model can cite it.
func formatPassage(source core.RetrievedSource) string {
	return fmt.Sprintf("[%s] %s", source.DocID, source.ChunkText)
}

func formatEntity(entity core.EntityRelation) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(entity.EntityName)
	if entity.RelationshipLabel != "" {
		b.WriteString(" (")
		b.WriteString(entity.RelationshipLabel)
		b.WriteString(")")
	}
	if entity.Context != "" {
		b.WriteString(" - ")
		b.WriteString(entity.Context)
	}
	return b.String()
}
