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

// Package search answers research questions by fusing retrieval signals
// and orchestrating generation.
//
// The Retriever combines two signals per query:
//   - Semantic search over the vector store, ordered by relevance
//   - Entity graph augmentation seeded by heuristic candidate extraction
//
// The Pipeline drives the full flow: retrieval fusion, grounding prompt
// construction, then generation with quota failover. A primary generator
// failure classified as quota exhaustion switches the request to the
// deterministic fallback generator and marks the response degraded; any
// other generation failure propagates to the caller.
//
// Graph augmentation is strictly best-effort. An unreachable graph
// store, a failed traversal, or a failed keyword match degrades to an
// empty entity list without failing the query.
package search
