package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"buildmatrix/internal/history"
	"buildmatrix/internal/matrix"
	"buildmatrix/internal/security"

	"github.com/go-chi/chi/v5"
)

const (
	MaxPayloadBytes        = 65536 // resolve requests are a handful of strings
	RecentResolutionsLimit = 10    // Number of recent resolutions to return in history endpoint
)

// HandleResolve handles matrix resolution requests
func (s *Server) HandleResolve(w http.ResponseWriter, r *http.Request) {
	// Check payload size (ContentLength can be -1 if not set, so check for both > 0 and > max)
	if r.ContentLength > MaxPayloadBytes {
		s.respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Payload too large"})
		return
	}

	// Check content type
	if r.Header.Get("Content-Type") != "application/json" {
		s.respondJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "Invalid content type"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes))
	if err != nil {
		s.Logger.Error("Failed to read request body", "error", err)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read payload"})
		return
	}

	var req matrix.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.Logger.Error("Failed to parse JSON payload", "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON payload"})
		return
	}

	result, err := matrix.Resolve(req, s.Registry.Config())
	s.recordResolution(r.Context(), req, result, err)

	if err != nil {
		var inputErr *matrix.InputError
		if errors.As(err, &inputErr) {
			s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		var cfgErr *matrix.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		s.Logger.Error("Resolution failed", "error", err, "repository", req.Repository)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Resolution failed"})
		return
	}

	s.Logger.Info("matrix resolved",
		"repository", req.Repository,
		"event", req.EventName,
		"branches", result.Branches,
		"entries", len(result.Matrix))
	s.respondJSON(w, http.StatusOK, result)
}

// recordResolution writes one resolution attempt to history
func (s *Server) recordResolution(ctx context.Context, req matrix.Request, result *matrix.Result, resolveErr error) {
	if s.TestMode || s.History == nil {
		return
	}

	// Classification can fail on malformed input; the record still names
	// the raw repository in that case.
	projectName, variant, classifyErr := matrix.ClassifyRepository(req.Repository)
	if classifyErr != nil {
		projectName = req.Repository
		variant = matrix.VariantOSS
	}

	record := &history.ResolutionRecord{
		Project:        projectName,
		Variant:        variant.String(),
		Repository:     req.Repository,
		Event:          req.EventName,
		Ref:            req.RefName,
		BranchOverride: req.BranchOverride,
		Status:         "resolved",
	}
	if resolveErr != nil {
		record.Status = "failed"
		msg := resolveErr.Error()
		record.ErrorMessage = &msg
	} else {
		record.Branches = result.Branches
		record.EntryCount = len(result.Matrix)
	}

	if _, err := s.History.RecordResolution(ctx, record); err != nil {
		s.Logger.Error("Failed to record resolution history", "error", err, "project", record.Project)
	}
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	projectNames := s.Registry.List()

	response := map[string]interface{}{
		"status":        "ok",
		"projects":      projectNames,
		"project_count": s.Registry.Count(),
	}

	s.respondJSON(w, http.StatusOK, response)
}

// HandleProject returns the raw configuration entry for one project
func (s *Server) HandleProject(w http.ResponseWriter, r *http.Request) {
	projectName := chi.URLParam(r, "projectName")

	if err := security.ValidateProjectName(projectName); err != nil {
		s.Logger.Warn("Invalid project name in project request", "project", projectName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid project name: %v", err)})
		return
	}

	entry, err := s.Registry.Get(projectName)
	if err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown project"})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"project": projectName,
		"config":  entry,
	})
}

// HandleHistory handles resolution history requests
func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	projectName := chi.URLParam(r, "projectName")

	if err := security.ValidateProjectName(projectName); err != nil {
		s.Logger.Warn("Invalid project name in history request", "project", projectName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid project name: %v", err)})
		return
	}

	if s.TestMode || s.History == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "History not available in test mode"})
		return
	}

	latest, err := s.History.GetLatestResolution(r.Context(), projectName)
	if err != nil {
		s.Logger.Error("Failed to get latest resolution", "error", err, "project", projectName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch resolution history"})
		return
	}

	recent, err := s.History.GetResolutionHistory(r.Context(), projectName, RecentResolutionsLimit)
	if err != nil {
		s.Logger.Error("Failed to get resolution history", "error", err, "project", projectName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch resolution history"})
		return
	}

	response := map[string]interface{}{
		"project":            projectName,
		"latest_resolution":  latest,
		"recent_resolutions": recent,
	}

	s.respondJSON(w, http.StatusOK, response)
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("Failed to encode JSON response", "error", err)
	}
}
