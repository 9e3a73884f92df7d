package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/graph"
	"github.com/poiesic/scholar/ingestion"
)

// Wire types. The JSON field names are the API contract; the core types
// stay free to evolve separately.

type queryRequest struct {
	Question        string `json:"question"`
	TopK            int    `json:"top_k"`
	IncludeEntities *bool  `json:"include_entities"`
}

type queryResponse struct {
	Answer           string           `json:"answer"`
	Sources          []sourceBody     `json:"sources"`
	RelatedEntities  []entityBody     `json:"related_entities"`
	ProcessingTimeMS float64          `json:"processing_time_ms"`
	Degraded         bool             `json:"degraded"`
}

type sourceBody struct {
	DocID          string            `json:"doc_id"`
	Title          string            `json:"title,omitempty"`
	ChunkText      string            `json:"chunk_text"`
	RelevanceScore float32           `json:"relevance_score"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type entityBody struct {
	EntityName   string  `json:"entity_name"`
	Relationship string  `json:"relationship"`
	TargetEntity string  `json:"target_entity,omitempty"`
	Context      string  `json:"context,omitempty"`
	Confidence   float32 `json:"confidence,omitempty"`
}

type ingestRequest struct {
	DocID    string            `json:"doc_id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

type ingestFileRequest struct {
	Path string `json:"path"`
}

type ingestResponse struct {
	DocID           string        `json:"doc_id,omitempty"`
	ChunksProcessed int           `json:"chunks_processed"`
	EntitiesAdded   int           `json:"entities_added"`
	Failures        []failureBody `json:"failures,omitempty"`
}

type failureBody struct {
	DocID string `json:"doc_id"`
	Error string `json:"error"`
}

type documentBody struct {
	DocID       string    `json:"doc_id"`
	Source      string    `json:"source,omitempty"`
	Title       string    `json:"title,omitempty"`
	ChunkCount  int       `json:"chunk_count"`
	EntityCount int       `json:"entity_count"`
	IngestedAt  time.Time `json:"ingested_at"`
}

type documentsResponse struct {
	Documents []documentBody `json:"documents"`
	Count     int            `json:"count"`
}

type deleteResponse struct {
	DocID   string `json:"doc_id"`
	Deleted bool   `json:"deleted"`
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type statsResponse struct {
	Documents int        `json:"documents"`
	Chunks    int        `json:"chunks"`
	Graph     graphStats `json:"graph"`
}

type graphStats struct {
	Status        string         `json:"status"`
	Nodes         int            `json:"nodes"`
	Relationships int            `json:"relationships"`
	TypeHistogram map[string]int `json:"type_histogram,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	// Entity augmentation defaults on; the flag only exists to turn it off.
	includeEntities := true
	if req.IncludeEntities != nil {
		includeEntities = *req.IncludeEntities
	}

	query := &core.ResearchQuery{
		Question:        req.Question,
		TopK:            req.TopK,
		IncludeEntities: includeEntities,
	}

	response, err := s.pipeline.ProcessQuery(r.Context(), query)
	if err != nil {
		s.writeError(w, classifyStatus(err), err)
		return
	}

	body := queryResponse{
		Answer:           response.Answer,
		Sources:          make([]sourceBody, 0, len(response.Sources)),
		RelatedEntities:  make([]entityBody, 0, len(response.RelatedEntities)),
		ProcessingTimeMS: float64(response.ProcessingTime) / float64(time.Millisecond),
		Degraded:         response.Degraded,
	}
	for _, source := range response.Sources {
		body.Sources = append(body.Sources, sourceBody{
			DocID:          source.DocID,
			Title:          source.Title,
			ChunkText:      source.ChunkText,
			RelevanceScore: source.RelevanceScore,
			Metadata:       source.Metadata,
		})
	}
	for _, entity := range response.RelatedEntities {
		body.RelatedEntities = append(body.RelatedEntities, entityBody{
			EntityName:   entity.EntityName,
			Relationship: entity.RelationshipLabel,
			TargetEntity: entity.TargetEntity,
			Context:      entity.Context,
			Confidence:   entity.Confidence,
		})
	}

	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	docID := req.DocID
	if docID == "" {
		// Matches the upload id format: doc_ plus 12 hex characters.
		docID = "doc_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	report, err := s.ingestor.IngestText(r.Context(), docID, req.Text, req.Metadata)
	if err != nil {
		s.writeError(w, classifyStatus(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, ingestReportBody(report))
}

func (s *Server) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	var req ingestFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	report, err := s.ingestor.IngestFile(r.Context(), req.Path)
	if err != nil {
		s.writeError(w, classifyStatus(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, ingestReportBody(report))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := documentsResponse{Documents: []documentBody{}}

	if s.documents != nil {
		records, err := s.documents.ListDocuments(ctx)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		for _, record := range records {
			body.Documents = append(body.Documents, documentBody{
				DocID:       record.DocID,
				Source:      record.Source,
				Title:       record.Title,
				ChunkCount:  record.ChunkCount,
				EntityCount: record.EntityCount,
				IngestedAt:  record.IngestedAt,
			})
		}
	} else {
		// No registry: fall back to the ids the vector store knows.
		ids, err := s.store.ListDocuments(ctx)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		for _, id := range ids {
			body.Documents = append(body.Documents, documentBody{DocID: id})
		}
	}

	body.Count = len(body.Documents)
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("docID")

	removed, err := s.ingestor.DeleteDocument(r.Context(), docID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("document %s not found", docID))
		return
	}

	s.writeJSON(w, http.StatusOK, deleteResponse{DocID: docID, Deleted: true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := map[string]string{}

	vectorHealthy := true
	if _, err := s.store.CountChunks(ctx); err != nil {
		vectorHealthy = false
		components["vector_store"] = "unhealthy"
	} else {
		components["vector_store"] = "healthy"
	}

	graphHealthy := s.entities != nil && s.entities.Ping(ctx) == nil
	if graphHealthy {
		components["graph_store"] = "healthy"
	} else {
		components["graph_store"] = "degraded"
	}

	if s.generatorConfigured {
		components["generator"] = "configured"
	} else {
		components["generator"] = "fallback_only"
	}

	body := healthResponse{Status: "ok", Components: components}
	status := http.StatusOK
	switch {
	case !vectorHealthy:
		body.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	case !graphHealthy || !s.generatorConfigured:
		body.Status = "degraded"
	}

	s.writeJSON(w, status, body)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chunks, err := s.store.CountChunks(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	documents := 0
	if s.documents != nil {
		if records, err := s.documents.ListDocuments(ctx); err == nil {
			documents = len(records)
		}
	}
	if documents == 0 {
		if ids, err := s.store.ListDocuments(ctx); err == nil {
			documents = len(ids)
		}
	}

	body := statsResponse{
		Documents: documents,
		Chunks:    chunks,
		Graph:     graphStats{Status: "degraded"},
	}

	if s.entities != nil && s.entities.Ping(ctx) == nil {
		if stats, err := s.entities.Stats(ctx); err == nil {
			body.Graph = graphStats{
				Status:        "healthy",
				Nodes:         stats.Nodes,
				Relationships: stats.Relationships,
				TypeHistogram: stats.TypeHistogram,
			}
		}
	}

	s.writeJSON(w, http.StatusOK, body)
}

// ingestReportBody converts an ingest report to its wire form.
func ingestReportBody(report *core.IngestReport) ingestResponse {
	body := ingestResponse{
		DocID:           report.DocID,
		ChunksProcessed: report.ChunksProcessed,
		EntitiesAdded:   report.EntitiesAdded,
	}
	for _, failure := range report.Failures {
		body.Failures = append(body.Failures, failureBody{
			DocID: failure.DocID,
			Error: failure.Err.Error(),
		})
	}
	return body
}

// classifyStatus maps pipeline and ingestion failures onto HTTP status
// codes. Client mistakes are 400, missing inputs 404, everything else
// is a 500.
func classifyStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidQuery),
		errors.Is(err, core.ErrInvalidChunk),
		errors.Is(err, ingestion.ErrNoContent),
		errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, graph.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
