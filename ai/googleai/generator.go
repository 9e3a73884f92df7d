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


package googleai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/scholar/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 30 * time.Second

	providerName = "googleai"
)

// unusableResponse is returned as the answer text when the API responds
// successfully but without any usable candidate.
const unusableResponse = "I apologize, but I couldn't generate a proper response. Please try again."

// Generator implements ai.Generator against the Google Gemini REST API.
type Generator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option is a functional option for configuring a Generator.
type Option func(*Generator)

// WithBaseURL overrides the API endpoint. Used in tests and for proxies.
func WithBaseURL(baseURL string) Option {
	return func(g *Generator) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		g.client = client
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		g.client.Timeout = timeout
	}
}

// NewGenerator creates a Gemini-backed generator. The model defaults to
// gemini-2.0-flash when empty.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(apiKey, model string, opts ...Option) (ai.Generator, error) {
	if apiKey == "" {
		return nil, errors.New("googleai: api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	g := &Generator{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default().With("component", "googleai-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Wire types for the v1beta generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate runs a single generation call against the Gemini API.
// Failures are returned as *ai.Error values classified by HTTP status, so
// callers can detect rate limiting and quota exhaustion without parsing
// message text.
func (g *Generator) Generate(ctx context.Context, req *ai.GenerationRequest) (*ai.GenerationResult, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, &ai.Error{Code: ai.CodeInvalidRequest, Message: "empty prompt", Provider: providerName}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = ai.DefaultMaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = ai.DefaultTemperature
	}
	topP := req.TopP
	if topP == 0 {
		topP = ai.DefaultTopP
	}
	topK := req.TopK
	if topK == 0 {
		topK = ai.DefaultTopK
	}

	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: req.Prompt}}},
		},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
			TopP:            topP,
			TopK:            topK,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ai.Error{Code: ai.CodeInvalidRequest, Message: "encoding request", Provider: providerName, Cause: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ai.Error{Code: ai.CodeInvalidRequest, Message: "building request", Provider: providerName, Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-goog-api-key", g.apiKey)

	g.logger.Debug("calling gemini", "model", g.model, "prompt_length", len(req.Prompt))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		apiErr := mapStatusError(resp.StatusCode, msg)
		g.logger.Error("gemini request failed", "status", resp.StatusCode, "code", apiErr.Code, "msg", msg)
		return nil, apiErr
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ai.Error{Code: ai.CodeUpstreamError, Message: "decoding response", Retryable: true, Provider: providerName, Cause: err}
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		g.logger.Warn("unexpected response structure from gemini")
		return &ai.GenerationResult{
			Text:         unusableResponse,
			FinishReason: "ERROR",
		}, nil
	}

	cand := decoded.Candidates[0]
	result := &ai.GenerationResult{
		Text:         cand.Content.Parts[0].Text,
		FinishReason: cand.FinishReason,
	}
	if result.FinishReason == "" {
		result.FinishReason = "STOP"
	}
	if decoded.UsageMetadata != nil {
		result.InputTokens = decoded.UsageMetadata.PromptTokenCount
		result.OutputTokens = decoded.UsageMetadata.CandidatesTokenCount
	}

	g.logger.Debug("gemini response",
		"finish_reason", result.FinishReason,
		"output_tokens", result.OutputTokens)

	return result, nil
}

// classifyTransportError maps connection-level failures onto the shared
// error taxonomy.
func classifyTransportError(err error) *ai.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ai.Error{Code: ai.CodeTimeout, Message: "request timed out", Retryable: true, Provider: providerName, Cause: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &ai.Error{Code: ai.CodeTimeout, Message: "request timed out", Retryable: true, Provider: providerName, Cause: err}
	}
	return &ai.Error{Code: ai.CodeUnavailable, Message: "gemini unreachable", Retryable: true, Provider: providerName, Cause: err}
}

// mapStatusError classifies an HTTP error status. Quota exhaustion shows up
// either as 429 or as a 400 whose message mentions the quota.
func mapStatusError(status int, msg string) *ai.Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ai.Error{Code: ai.CodeUnauthorized, Message: msg, HTTPStatus: status, Provider: providerName}
	case http.StatusTooManyRequests:
		return &ai.Error{Code: ai.CodeRateLimited, Message: msg, HTTPStatus: status, Retryable: true, Provider: providerName}
	case http.StatusBadRequest:
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") {
			return &ai.Error{Code: ai.CodeQuotaExceeded, Message: msg, HTTPStatus: status, Provider: providerName}
		}
		return &ai.Error{Code: ai.CodeInvalidRequest, Message: msg, HTTPStatus: status, Provider: providerName}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &ai.Error{Code: ai.CodeUpstreamError, Message: msg, HTTPStatus: status, Retryable: true, Provider: providerName}
	default:
		return &ai.Error{Code: ai.CodeUpstreamError, Message: msg, HTTPStatus: status, Retryable: status >= 500, Provider: providerName}
	}
}

// readErrorMessage extracts a human-readable message from an error response
// body, falling back to the raw body when it is not the documented shape.
func readErrorMessage(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var decoded errorResponse
	if err := json.Unmarshal(data, &decoded); err == nil && decoded.Error.Message != "" {
		if decoded.Error.Status != "" {
			return fmt.Sprintf("%s (status: %s)", decoded.Error.Message, decoded.Error.Status)
		}
		return decoded.Error.Message
	}
	return string(data)
}
