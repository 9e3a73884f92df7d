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


// Package graph provides the entity graph abstraction layer for scholar.
//
// This package defines repository interfaces that decouple graph storage
// from retrieval and ingestion logic. Entities are typed named nodes,
// relations are typed edges between them, and the document registry
// tracks what has been ingested.
//
// # Architecture
//
// The graph layer follows the Repository pattern:
//
//   - EntityRepository: Entity nodes, typed relations, traversal, and
//     keyword matching
//   - DocumentRepository: Registry of ingested documents
//
// Both embed Repository, which carries Ping, transactions, and Close.
//
// # Degraded Operation
//
// The graph is an optional enrichment signal. Callers probe it with
// Ping before each lookup and treat failure as "no entities", never as
// a query failure. Traversal and keyword results are transient
// core.EntityRelation values, capped and ordered for prompt building.
//
// # Usage
//
// Create repositories backed by BadgerDB:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	entities, err := badger.NewEntityRepository(backend)
//
// Use in tests with in-memory storage:
//
//	entities, documents, backend, err := badger.NewMemoryGraph()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package graph
