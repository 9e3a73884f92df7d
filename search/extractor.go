// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"regexp"
	"strings"
)

const (
	// maxKeywords bounds how many keywords seed the graph lookup.
	maxKeywords = 5

	// minKeywordLength filters out short tokens; keywords must be
	// strictly longer than this.
	minKeywordLength = 3
)

// CandidateExtractor turns a question into graph lookup seeds: candidate
// entity names and ranked keywords. Implementations must be pure
// functions of the question string. The default is HeuristicExtractor;
// a model-backed recognizer can be substituted without touching
// retrieval.
type CandidateExtractor interface {
	ExtractCandidates(question string) (entities []string, keywords []string)
}

// HeuristicExtractor extracts candidates lexically: capitalized word
// runs and quoted substrings become entity candidates, remaining long
// tokens become keywords. It is a proper-noun heuristic, not named
// entity recognition.
type HeuristicExtractor struct{}

var _ CandidateExtractor = HeuristicExtractor{}

var (
	capitalizedRun = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	quotedPhrase   = regexp.MustCompile(`"([^"]*)"`)
	wordToken      = regexp.MustCompile(`\b\w+\b`)
)

// ExtractCandidates returns entity candidates and keywords in source
// order, entity candidates deduplicated exactly, keywords truncated to
// the first 5 tokens longer than 3 characters that are not function
// words.
func (HeuristicExtractor) ExtractCandidates(question string) ([]string, []string) {
	return extractEntityCandidates(question), extractKeywords(question)
}

func extractEntityCandidates(question string) []string {
	var candidates []string
	candidates = append(candidates, capitalizedRun.FindAllString(question, -1)...)
	for _, match := range quotedPhrase.FindAllStringSubmatch(question, -1) {
		candidates = append(candidates, match[1])
	}

	seen := make(map[string]bool, len(candidates))
	entities := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" || entityStopWords[candidate] || seen[candidate] {
			continue
		}
		seen[candidate] = true
		entities = append(entities, candidate)
	}
	return entities
}

func extractKeywords(question string) []string {
	words := wordToken.FindAllString(strings.ToLower(question), -1)

	keywords := make([]string, 0, maxKeywords)
	for _, word := range words {
		if len(word) <= minKeywordLength || keywordStopWords[word] {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
