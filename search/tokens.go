package search

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEstimator reports approximate token counts for prompt sizing.
// Estimates feed logging and monitoring only; no prompt is truncated on
// the basis of an estimate.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// TiktokenEstimator counts tokens with a BPE encoding. Construction
// fetches the encoding dictionary, so callers treat failure as
// non-fatal and run without estimates.
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

var _ TokenEstimator = (*TiktokenEstimator)(nil)

// NewTiktokenEstimator loads the cl100k_base encoding.
func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoding: %w", err)
	}
	return &TiktokenEstimator{encoding: encoding}, nil
}

// EstimateTokens returns the token count of text under the loaded
// encoding.
func (e *TiktokenEstimator) EstimateTokens(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}
