package search

import (
	"github.com/poiesic/scholar/core"
)

// QueryMonitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps and results
// while a query is processed.
type QueryMonitor interface {
	Start(question string)
	AfterRetrieval(sources []core.RetrievedSource)
	AfterEntityLookup(entities []core.EntityRelation)
	AfterPromptBuilt(prompt string, estimatedTokens int)
	PrimaryGenerationFailed(err error)
	FallbackUsed(reason string)
	Finish(response *core.ResearchResponse)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterRetrieval(_ []core.RetrievedSource) {}
func (n *noopMonitor) AfterEntityLookup(_ []core.EntityRelation) {}
func (n *noopMonitor) AfterPromptBuilt(_ string, _ int)        {}
func (n *noopMonitor) PrimaryGenerationFailed(_ error)         {}
func (n *noopMonitor) FallbackUsed(_ string)                   {}
func (n *noopMonitor) Finish(_ *core.ResearchResponse)         {}
