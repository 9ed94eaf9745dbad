package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
)

// AnalysisHandler exposes the curriculum analysis endpoints. Each route is a
// stateless pass-through to the backend.
type AnalysisHandler struct {
	analysisService interfaces.AnalysisService
	logger          arbor.ILogger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService interfaces.AnalysisService, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// CourseGraphHandler handles GET /api/analysis/course-graph
func (h *AnalysisHandler) CourseGraphHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	graph, err := h.analysisService.CourseGraph(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, graph)
}

type creditsRequest struct {
	Semesters []string `json:"semesters"`
}

// CreditsHandler handles POST /api/analysis/credits
func (h *AnalysisHandler) CreditsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req creditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	breakdown, err := h.analysisService.Credits(r.Context(), req.Semesters)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, breakdown)
}

// PrerequisitesHandler handles GET /api/analysis/prerequisites/{code}
func (h *AnalysisHandler) PrerequisitesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/analysis/prerequisites/")
	check, err := h.analysisService.Prerequisites(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, check)
}

// SpecializationHandler handles GET /api/analysis/specializations/{slug}
func (h *AnalysisHandler) SpecializationHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/analysis/specializations/")
	spec, err := h.analysisService.Specialization(r.Context(), slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, spec)
}

// ExamHelperHandler handles GET /api/analysis/exam-helper?focus=
func (h *AnalysisHandler) ExamHelperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tips, err := h.analysisService.ExamHelper(r.Context(), r.URL.Query().Get("focus"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tips)
}

type careerPathRequest struct {
	CompletedCourses []string `json:"completed_courses"`
}

// CareerPathHandler handles POST /api/analysis/career-path
func (h *AnalysisHandler) CareerPathHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req careerPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	paths, err := h.analysisService.CareerPaths(r.Context(), req.CompletedCourses)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, paths)
}
