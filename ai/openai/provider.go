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


package openai

import (
	"log/slog"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/ai/googleai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services for
// embeddings and entity extraction, and the Google Gemini API for answer
// generation when an API key is configured.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	extractor *EntityExtractor
	generator ai.Generator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider. The config is validated and
// normalized before use. When config.GeminiAPIKey is empty, Generator()
// returns nil and callers answer in extractive fallback mode.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to provider-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	// Create entity extractor (using internal constructor for concrete type)
	extractor, err := newEntityExtractor(config)
	if err != nil {
		return nil, err
	}

	// Generation is optional; without a key the assistant still ingests
	// and retrieves, it just cannot synthesize answers.
	var generator ai.Generator
	if config.GeminiAPIKey != "" {
		generator, err = googleai.NewGenerator(config.GeminiAPIKey, config.GenerationModel)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		extractor: extractor,
		generator: generator,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the answer generation service, or nil when no Gemini
// API key was configured.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// EntityExtractor returns the entity extraction service.
func (p *Provider) EntityExtractor() ai.EntityExtractor {
	return p.extractor
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing AI provider")
	return nil
}
