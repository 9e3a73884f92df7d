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


package fallback

import (
	"fmt"
	"log/slog"
	"strings"
)

// Generator produces deterministic extractive answers without any model
// calls. It is used when no generation backend is configured and when the
// primary backend reports quota exhaustion mid-request.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a fallback generator.
func NewGenerator() *Generator {
	return &Generator{
		logger: slog.Default().With("component", "fallback-generator"),
	}
}

// Answer builds a response for the question. With passages available it
// extracts leading sentences into a bulleted summary; without passages it
// returns a canned response keyed off question phrasing. Always succeeds.
func (g *Generator) Answer(question string, passages []string) string {
	if len(passages) > 0 {
		g.logger.Debug("building extractive answer", "passages", len(passages))
		return contextSummary(passages)
	}
	g.logger.Debug("building canned answer")
	return basicAnswer(question)
}

// contextSummary bullets the leading sentences of the retrieved passages.
func contextSummary(passages []string) string {
	// Take the first two sentences of every passage as candidate bullets.
	var sentences []string
	for _, passage := range passages {
		parts := strings.Split(passage, ". ")
		if len(parts) > 2 {
			parts = parts[:2]
		}
		sentences = append(sentences, parts...)
	}

	var parts []string
	parts = append(parts, "Based on the available documents, here's what I found:")
	parts = append(parts, "")

	if len(sentences) > 0 {
		parts = append(parts, "Key Information:")
		limit := len(sentences)
		if limit > 3 {
			limit = 3
		}
		for _, sentence := range sentences[:limit] {
			if trimmed := strings.TrimSpace(sentence); trimmed != "" {
				parts = append(parts, "• "+trimmed)
			}
		}
	}

	parts = append(parts, "")
	parts = append(parts, "Note: This response is generated from document context. ")
	parts = append(parts, "For more detailed analysis, please ensure the AI service is properly configured.")

	return strings.Join(parts, "\n")
}

// basicAnswer returns a canned response based on how the question is phrased.
// Matching is by substring, so the earlier branches win when several keywords
// appear in one question.
func basicAnswer(question string) string {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, "what", "define", "explain"):
		return fmt.Sprintf("I understand you're asking about: '%s'\n\n"+
			"I'm currently operating in fallback mode without access to the full AI capabilities. "+
			"To get detailed answers, please ensure the Gemini API is properly configured with sufficient quota.",
			question)

	case containsAny(lower, "how", "steps", "process"):
		return fmt.Sprintf("You're asking about the process or method for: '%s'\n\n"+
			"I'm currently in fallback mode and cannot provide detailed step-by-step guidance. "+
			"Please ensure the AI service is properly configured for comprehensive responses.",
			question)

	case containsAny(lower, "why", "reason", "cause"):
		return fmt.Sprintf("You're asking about the reasons or causes related to: '%s'\n\n"+
			"I'm currently operating in limited mode. "+
			"For detailed explanations and analysis, please configure the full AI capabilities.",
			question)

	default:
		return fmt.Sprintf("I received your question: '%s'\n\n"+
			"I'm currently operating in fallback mode due to API limitations. "+
			"While I can access and search through your documents, "+
			"I cannot provide full AI-powered analysis at the moment.\n\n"+
			"Please check the API configuration and quota settings to enable full functionality.",
			question)
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
