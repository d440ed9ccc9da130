package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/swaggo/swag"

	// Registers the OpenAPI document served at /swagger/doc.json
	_ "github.com/custodia-labs/course-qa/docs"
	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// maxQuestionBody bounds POST /api/ bodies; the image field may carry a data URI
const maxQuestionBody = 8 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// ReadyResponse reports readiness and the result of each check
// @Description Readiness response
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Reports service status and snapshot statistics. Never fails when the snapshot is unreadable.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  domain.HealthReport
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.questions.Health(r.Context()))
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks the snapshot and any configured backing services
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK

	if report := s.questions.Health(ctx); report.Status != domain.HealthOK {
		resp.Checks["snapshot"] = report.Reason
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["snapshot"] = "ok"
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.checks[name].Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if status != http.StatusOK {
		resp.Status = "not ready"
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// Question endpoint

// handleQuestion godoc
// @Summary      Answer a question
// @Description  Matches the question against the course and forum snapshot and returns ranked links with a short answer
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      domain.QuestionRequest  true  "Question"
// @Success      200      {object}  domain.AnswerResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Failure      503      {object}  ErrorResponse  "Knowledge snapshot unavailable"
// @Router       /api/ [post]
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req domain.QuestionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxQuestionBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.questions.Answer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSnapshotUnavailable):
			s.logger.Warn("question rejected", "error", err)
			writeError(w, http.StatusServiceUnavailable, "knowledge snapshot unavailable")
		default:
			s.logger.Error("question failed", "error", err, "question", req.Question)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSwaggerDoc serves the registered OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.logger.Error("read swagger doc", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
