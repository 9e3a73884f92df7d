package ai

// EntityTypes defines the valid categories for extracted entities.
// These types are used by entity extractors to classify named entities
// and concepts found in document text.
var EntityTypes = []string{
	"PERSON",
	"ORGANIZATION",
	"CONCEPT",
	"TECHNOLOGY",
	"LOCATION",
	"DATE",
}

// DefaultEntityType is assigned to extracted entities whose type is missing.
const DefaultEntityType = "CONCEPT"

// ExtractedEntity represents a named entity identified in text.
// Each entity has a name, a type (category), and a short context
// describing how the entity appears in the source text.
type ExtractedEntity struct {
	// Name is the surface form of the entity as it appears in the text.
	// Example: "Marie Curie", "CRISPR", "World Health Organization"
	Name string

	// Type categorizes the entity. Usually one of EntityTypes; extractors
	// substitute DefaultEntityType when the model omits it.
	Type string

	// Context is a short phrase describing the entity's role in the text.
	// May be empty when the extractor provides no context.
	Context string
}

// Generation defaults applied when a GenerationRequest leaves the
// corresponding field zero.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.3
	DefaultTopP        = 0.95
	DefaultTopK        = 40
)

// GenerationRequest describes a single text generation call.
type GenerationRequest struct {
	// Prompt is the fully assembled prompt text, including any document
	// context and entity listing.
	Prompt string

	// MaxTokens caps the length of the generated response.
	// Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls sampling randomness. Zero means DefaultTemperature.
	Temperature float64

	// TopP is the nucleus sampling threshold. Zero means DefaultTopP.
	TopP float64

	// TopK limits sampling to the K most likely tokens. Zero means DefaultTopK.
	TopK int
}

// GenerationResult holds the outcome of a generation call.
type GenerationResult struct {
	// Text is the generated response.
	Text string

	// FinishReason reports why generation stopped, as reported by the
	// underlying model ("STOP", "MAX_TOKENS", ...). Empty if unknown.
	FinishReason string

	// InputTokens and OutputTokens carry usage metadata when the provider
	// reports it. Zero when unavailable.
	InputTokens  int
	OutputTokens int
}
