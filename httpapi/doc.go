// Package httpapi exposes the research assistant over HTTP.
//
// The API is JSON over a stdlib ServeMux under /api/v1:
//
//	POST   /api/v1/query           answer a research question
//	POST   /api/v1/ingest          ingest raw text for a document
//	POST   /api/v1/documents       ingest a file from a local path
//	GET    /api/v1/documents       list ingested documents
//	DELETE /api/v1/documents/{id}  delete a document everywhere
//	GET    /api/v1/health          component health, degraded-aware
//	GET    /api/v1/stats           corpus and graph statistics
//
// Every request carries a generated id, echoed in the X-Request-ID
// response header and attached to the request log lines. Failures map
// onto status codes by class: validation errors are 400, unknown
// documents 404, everything else 500 with the error message in the
// JSON envelope.
package httpapi
