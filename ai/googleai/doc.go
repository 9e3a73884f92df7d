// Package googleai provides answer generation backed by the Google Gemini API.
//
// The Generator type talks to the v1beta generateContent endpoint over REST
// and classifies failures into the shared ai error taxonomy by HTTP status.
// Rate limiting (429) and quota exhaustion surface as typed errors so that
// the answering pipeline can degrade to its extractive fallback without
// inspecting provider message text.
package googleai
