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


package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/scholar/graph"
	"github.com/poiesic/scholar/ingestion"
	"github.com/poiesic/scholar/search"
	"github.com/poiesic/scholar/vectorstore"
)

// Config collects the collaborators the server exposes.
type Config struct {
	// Pipeline answers queries. Required.
	Pipeline *search.Pipeline

	// Ingestor handles ingestion and document deletion. Required.
	Ingestor *ingestion.Ingestor

	// Store backs document counting for health and stats. Required.
	Store vectorstore.VectorStore

	// Entities backs graph health and stats. May be nil; the graph
	// subsystem then always reports degraded.
	Entities graph.EntityRepository

	// Documents backs document listing. May be nil; listing then falls
	// back to the vector store's document ids.
	Documents graph.DocumentRepository

	// GeneratorConfigured reports whether a primary generator exists.
	// Without one the assistant answers in fallback mode, which health
	// reporting discloses.
	GeneratorConfigured bool
}

// Server is the HTTP transport over the query pipeline and ingestor.
type Server struct {
	pipeline            *search.Pipeline
	ingestor            *ingestion.Ingestor
	store               vectorstore.VectorStore
	entities            graph.EntityRepository
	documents           graph.DocumentRepository
	generatorConfigured bool
	mux                 *http.ServeMux
	logger              *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the HTTP server around the given collaborators.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if cfg.Ingestor == nil {
		return nil, ErrIngestorRequired
	}
	if cfg.Store == nil {
		return nil, ErrVectorStoreRequired
	}

	s := &Server{
		pipeline:            cfg.Pipeline,
		ingestor:            cfg.Ingestor,
		store:               cfg.Store,
		entities:            cfg.Entities,
		documents:           cfg.Documents,
		generatorConfigured: cfg.GeneratorConfigured,
		mux:                 http.NewServeMux(),
		logger:              slog.Default().With("component", "httpapi"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /api/v1/query", s.handleQuery)
	s.mux.HandleFunc("POST /api/v1/ingest", s.handleIngest)
	s.mux.HandleFunc("POST /api/v1/documents", s.handleIngestFile)
	s.mux.HandleFunc("GET /api/v1/documents", s.handleListDocuments)
	s.mux.HandleFunc("DELETE /api/v1/documents/{docID}", s.handleDeleteDocument)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)

	return s, nil
}

// Handler returns the fully assembled handler: the route mux wrapped in
// request-id and logging middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// withRequestID assigns every request an id, echoes it back in the
// X-Request-ID header, and logs the request once it completes.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON renders a response body. Encoding failures are logged; by
// then the status line is already on the wire.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

// errorBody is the JSON envelope for failures.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}
