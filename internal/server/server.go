package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/freightctl/ftl-extractor/internal/common"
	"github.com/freightctl/ftl-extractor/internal/export"
	"github.com/freightctl/ftl-extractor/internal/pipeline"
	"github.com/freightctl/ftl-extractor/internal/route"
)

// DocumentProcessor runs the extraction pipeline for one uploaded document.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string) (pipeline.Result, error)
}

// Server exposes the pipeline and its collections over HTTP.
type Server struct {
	logger        *slog.Logger
	processor     DocumentProcessor
	accepted      *route.Store
	review        *route.Store
	exporter      *export.Service
	maxUploadSize int64
}

func New(
	logger *slog.Logger,
	processor DocumentProcessor,
	accepted, review *route.Store,
	exporter *export.Service,
	maxUploadSize int64,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:        logger.With("component", "http"),
		processor:     processor,
		accepted:      accepted,
		review:        review,
		exporter:      exporter,
		maxUploadSize: maxUploadSize,
	}
}

// Routes wires the endpoint handlers onto a mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents", s.handleUpload)
	mux.HandleFunc("GET /orders", s.handleListAccepted)
	mux.HandleFunc("GET /orders/export", s.handleExport)
	mux.HandleFunc("GET /review", s.handleListReview)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

// mapStatus translates application errors to HTTP status codes.
func mapStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnsupported):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
