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


// Package ai provides abstractions for AI services used in Scholar.
//
// This package defines interfaces for AI operations including text embeddings,
// answer generation, and entity extraction. It follows the dependency
// inversion principle, allowing the core domain and business logic to depend
// on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces free-text answers from assembled prompts
//   - EntityExtractor: Extracts named entities from text
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes several implementation sub-packages:
//
//   - ai/openai: Embeddings and entity extraction via OpenAI-compatible APIs
//   - ai/googleai: Answer generation via the Google Gemini API
//   - ai/fallback: Deterministic extractive answering with no model calls
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Error Classification
//
// Provider adapters return *Error values that classify failures by code.
// Callers branch on the classification rather than on message text:
//
//	result, err := generator.Generate(ctx, req)
//	if ai.IsQuotaExhausted(err) {
//	    // degrade to the extractive fallback
//	}
//
// # Constructor Return Type Pattern
//
// This package follows a mixed constructor pattern based on use case:
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. This is essential for dependency injection and
// supporting multiple implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockGenerator,
// mock.NewMockEntityExtractor) return CONCRETE types to enable test
// assertions and behavior injection via the mock's public fields and methods
// (CallCount, function fields, Reset, etc.).
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithGeminiAPIKey(os.Getenv("GEMINI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	embeddings, err := provider.Embedder().EmbedText(ctx, "CRISPR gene editing")
//	entities, err := provider.EntityExtractor().ExtractEntities(ctx, "Marie Curie studied radioactivity in Paris")
//
// # Architecture Benefits
//
//   - Testability: Business logic can be tested without external AI services
//   - Flexibility: AI providers can be swapped without changing business logic
//   - Maintainability: Clear boundaries between AI services and domain logic
//   - Extensibility: New providers can be added by implementing interfaces
package ai
