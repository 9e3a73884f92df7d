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
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/ai/fallback"
	"github.com/poiesic/scholar/core"
)

// FallbackNotice is appended to answers produced by the fallback
// generator after a quota failover, disclosing degraded-mode generation.
const FallbackNotice = "\n\n⚠️ Note: Response generated in fallback mode due to API quota limits."

// Pipeline processes research queries end to end: retrieval fusion,
// prompt construction, and generation with quota failover.
//
// The primary generator may be nil. The pipeline then answers every
// query with the deterministic fallback generator, marking responses
// degraded.
type Pipeline struct {
	retriever *Retriever
	generator ai.Generator
	fallback  *fallback.Generator
	estimator TokenEstimator
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTokenEstimator enables prompt token estimation for logging and
// monitoring. Without one, estimates are reported as zero.
func WithTokenEstimator(estimator TokenEstimator) Option {
	return func(p *Pipeline) error {
		p.estimator = estimator
		return nil
	}
}

// NewPipeline creates a query pipeline. The generator may be nil for
// fallback-only operation.
func NewPipeline(retriever *Retriever, generator ai.Generator, opts ...Option) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	p := &Pipeline{
		retriever: retriever,
		generator: generator,
		fallback:  fallback.NewGenerator(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ProcessQuery answers a research query.
// Returns the response with sources ordered by descending relevance and
// related entities deduplicated case-insensitively.
func (p *Pipeline) ProcessQuery(ctx context.Context, query *core.ResearchQuery) (*core.ResearchResponse, error) {
	return p.ProcessQueryWithMonitor(ctx, query, nil)
}

// ProcessQueryWithMonitor answers a research query with monitoring.
// The monitor receives callbacks at each stage of query processing.
func (p *Pipeline) ProcessQueryWithMonitor(ctx context.Context, query *core.ResearchQuery, monitor QueryMonitor) (*core.ResearchResponse, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	start := time.Now()
	p.logger.Info("processing query", "question", query.Question)
	monitor.Start(query.Question)

	// 1. Retrieval fusion: vector hits plus graph augmentation
	sources, entities, err := p.retriever.Retrieve(ctx, query.Question, query.EffectiveTopK(), query.IncludeEntities)
	if err != nil {
		return nil, err
	}
	monitor.AfterRetrieval(sources)
	monitor.AfterEntityLookup(entities)

	// 2. Prompt construction
	prompt := BuildPrompt(query.Question, sources, entities)
	estimatedTokens := 0
	if p.estimator != nil {
		estimatedTokens = p.estimator.EstimateTokens(prompt)
		p.logger.Debug("built prompt", "estimated_tokens", estimatedTokens)
	}
	monitor.AfterPromptBuilt(prompt, estimatedTokens)

	// 3. Generation with quota failover
	answer, degraded, err := p.generate(ctx, query.Question, prompt, sources, monitor)
	if err != nil {
		return nil, err
	}

	response := &core.ResearchResponse{
		Answer:          answer,
		Sources:         sources,
		RelatedEntities: entities,
		ProcessingTime:  time.Since(start),
		Degraded:        degraded,
	}

	p.logger.Info("query processed", "duration", response.ProcessingTime, "sources", len(sources), "degraded", degraded)
	monitor.Finish(response)
	return response, nil
}

// generate runs the primary attempt, then the fallback attempt when the
// primary reports quota exhaustion. The fallback is never attempted
// speculatively and never fails. Non-quota generation failures
// propagate.
func (p *Pipeline) generate(ctx context.Context, question, prompt string, sources []core.RetrievedSource, monitor QueryMonitor) (string, bool, error) {
	if p.generator == nil {
		p.logger.Info("no generator configured, answering in fallback mode")
		monitor.FallbackUsed("no generator configured")
		return p.fallback.Answer(question, fallbackPassages(sources)), true, nil
	}

	result, err := p.generator.Generate(ctx, &ai.GenerationRequest{Prompt: prompt})
	if err == nil {
		return result.Text, false, nil
	}

	monitor.PrimaryGenerationFailed(err)
	if !ai.IsQuotaExhausted(err) {
		p.logger.Error("generation failed", "err", err)
		return "", false, err
	}

	p.logger.Warn("generation quota exhausted, answering in fallback mode", "err", err)
	monitor.FallbackUsed("quota exhausted")
	answer := p.fallback.Answer(question, fallbackPassages(sources)) + FallbackNotice
	return answer, true, nil
}

// fallbackPassages renders sources the way the fallback generator
// expects them, id-prefixed like prompt passages.
func fallbackPassages(sources []core.RetrievedSource) []string {
	passages := make([]string, 0, len(sources))
	for _, source := range sources {
		passages = append(passages, formatPassage(source))
	}
	return passages
}
