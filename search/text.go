package search

// Interrogatives and determiners that show up capitalized at the start
// of a question but are never entity names.
var entityStopWords = map[string]bool{
	"The": true, "This": true, "That": true, "What": true, "How": true,
	"Why": true, "Where": true, "When": true, "Who": true,
}

// Function words excluded from keyword extraction.
var keywordStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "what": true, "how": true, "why": true,
	"where": true, "when": true, "who": true, "which": true,
}
