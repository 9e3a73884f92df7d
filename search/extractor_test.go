package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCandidates_CapitalizedRuns(t *testing.T) {
	extractor := HeuristicExtractor{}

	entities, keywords := extractor.ExtractCandidates("What is Gene Editing and how does Crispr relate?")

	assert.Equal(t, []string{"Gene Editing", "Crispr"}, entities)
	assert.Equal(t, []string{"gene", "editing", "crispr", "relate"}, keywords)
}

func TestExtractCandidates_QuotedPhrases(t *testing.T) {
	extractor := HeuristicExtractor{}

	entities, _ := extractor.ExtractCandidates(`What is "machine learning" about?`)

	assert.Equal(t, []string{"machine learning"}, entities)
}

func TestExtractCandidates_QuotedDuplicateOfRun(t *testing.T) {
	extractor := HeuristicExtractor{}

	entities, _ := extractor.ExtractCandidates(`What is "Gene Editing"? Gene Editing matters.`)

	assert.Equal(t, []string{"Gene Editing"}, entities)
}

func TestExtractCandidates_InterrogativesFiltered(t *testing.T) {
	extractor := HeuristicExtractor{}

	entities, _ := extractor.ExtractCandidates("What is that? How does it work? Who knows?")

	assert.Empty(t, entities)
}

func TestExtractCandidates_AcronymsNotMatched(t *testing.T) {
	extractor := HeuristicExtractor{}

	// All-caps tokens never match the capitalized-run pattern, and "dna"
	// is too short to survive the keyword length filter. This question
	// legitimately produces zero graph seeds.
	entities, keywords := extractor.ExtractCandidates("What is DNA?")

	assert.Empty(t, entities)
	assert.Empty(t, keywords)
}

func TestExtractKeywords_CapAtFive(t *testing.T) {
	extractor := HeuristicExtractor{}

	_, keywords := extractor.ExtractCandidates(
		"describe quantum entanglement photon experiments involving superconducting qubits")

	assert.Equal(t, []string{"describe", "quantum", "entanglement", "photon", "experiments"}, keywords)
}

func TestExtractKeywords_LengthFilter(t *testing.T) {
	extractor := HeuristicExtractor{}

	_, keywords := extractor.ExtractCandidates("Why do cats nap all day?")

	// Tokens must be strictly longer than three characters
	assert.Equal(t, []string{"cats"}, keywords)
}

func TestExtractKeywords_NotDeduplicated(t *testing.T) {
	extractor := HeuristicExtractor{}

	_, keywords := extractor.ExtractCandidates("neural networks versus neural computation")

	assert.Equal(t, []string{"neural", "networks", "versus", "neural", "computation"}, keywords)
}

func TestExtractCandidates_EmptyQuestion(t *testing.T) {
	extractor := HeuristicExtractor{}

	entities, keywords := extractor.ExtractCandidates("")

	assert.Empty(t, entities)
	assert.Empty(t, keywords)
}
