package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/freightctl/ftl-extractor/internal/common"
)

// handleUpload accepts a multipart document upload, runs the pipeline on it
// and returns the run summary. The rejected batch is not in the response;
// it lands in the review queue.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload too large: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	// The parser works from disk, so stage the upload in a temp dir that
	// keeps the original filename (and extension) intact.
	tmpDir, err := os.MkdirTemp("", "ftl-upload-")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	dst := filepath.Join(tmpDir, filepath.Base(header.Filename))
	out, err := os.Create(dst)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		s.respondError(w, http.StatusInternalServerError, fmt.Errorf("stage upload: %w", err))
		return
	}
	if err := out.Close(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	ctx := common.WithRequestID(r.Context(), uuid.New().String())
	result, err := s.processor.ProcessFile(ctx, dst)
	if err != nil {
		s.respondError(w, mapStatus(err), err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAccepted(w http.ResponseWriter, r *http.Request) {
	s.respondCollection(w, s.accepted.ReadAll())
}

func (s *Server) handleListReview(w http.ResponseWriter, r *http.Request) {
	s.respondCollection(w, s.review.ReadAll())
}

func (s *Server) respondCollection(w http.ResponseWriter, records []json.RawMessage) {
	if records == nil {
		records = []json.RawMessage{}
	}
	s.respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.respondError(w, http.StatusNotFound, errors.New("export not configured"))
		return
	}
	data, err := s.exporter.AcceptedXLSX()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="accepted_orders.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("export write failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
