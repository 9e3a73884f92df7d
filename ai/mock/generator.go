package mock

import (
	"context"

	"github.com/poiesic/scholar/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a fixed mock response.
	GenerateFunc func(ctx context.Context, req *ai.GenerationRequest) (*ai.GenerationResult, error)

	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a fixed response, or delegates to GenerateFunc when set.
func (m *MockGenerator) Generate(ctx context.Context, req *ai.GenerationRequest) (*ai.GenerationResult, error) {
	m.callCount++
	if req != nil {
		m.lastPrompt = req.Prompt
	}

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	return &ai.GenerationResult{
		Text:         "This is a mock generated response.",
		FinishReason: "STOP",
	}, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt from the most recent Generate call.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count, recorded prompt, and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.GenerateFunc = nil
}
