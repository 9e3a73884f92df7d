// Package fallback provides deterministic answering without model calls.
//
// The Generator type builds extractive answers from retrieved passages, or
// canned responses when no context is available. It backs two situations:
// running with no generation API key configured, and degrading gracefully
// when the primary generation backend reports quota exhaustion.
package fallback
