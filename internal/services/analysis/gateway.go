package analysis

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Gateway is the stateless pass-through to the curriculum analysis
// endpoints. It holds no cache; each call maps one-to-one onto a backend
// request, with only local key validation in front.
type Gateway struct {
	backend interfaces.AnalysisBackend
	logger  arbor.ILogger
}

// NewGateway creates an analysis gateway
func NewGateway(backend interfaces.AnalysisBackend, logger arbor.ILogger) *Gateway {
	return &Gateway{
		backend: backend,
		logger:  logger,
	}
}

// CourseGraph fetches the full course dependency graph
func (g *Gateway) CourseGraph(ctx context.Context) (*models.CourseGraph, error) {
	return g.backend.CourseGraph(ctx)
}

// Credits fetches the credit breakdown, optionally filtered by semester
func (g *Gateway) Credits(ctx context.Context, semesters []string) (*models.CreditsBreakdown, error) {
	return g.backend.Credits(ctx, semesters)
}

// Prerequisites checks the prerequisite chain for one course code
func (g *Gateway) Prerequisites(ctx context.Context, courseCode string) (*models.PrerequisiteCheck, error) {
	code := strings.TrimSpace(courseCode)
	if code == "" {
		return nil, models.NewValidationError("Course code is required.")
	}
	return g.backend.Prerequisites(ctx, code)
}

// Specialization fetches one specialization track by slug
func (g *Gateway) Specialization(ctx context.Context, slug string) (*models.Specialization, error) {
	key := strings.TrimSpace(slug)
	if key == "" {
		return nil, models.NewValidationError("Specialization is required.")
	}
	return g.backend.Specialization(ctx, key)
}

// ExamHelper fetches preparation tips, optionally focused on one course
func (g *Gateway) ExamHelper(ctx context.Context, focus string) (*models.ExamTips, error) {
	return g.backend.ExamHelper(ctx, strings.TrimSpace(focus))
}

// CareerPaths fetches career suggestions for the completed course list
func (g *Gateway) CareerPaths(ctx context.Context, completedCourses []string) (*models.CareerPaths, error) {
	return g.backend.CareerPaths(ctx, completedCourses)
}
