package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ternarybob/rogo/internal/models"
)

// Analysis responses are not repaired client-side: a response missing a
// required field is surfaced as an error, never defaulted.

// CourseGraph fetches the curriculum dependency graph.
func (c *Client) CourseGraph(ctx context.Context) (*models.CourseGraph, error) {
	var resp models.CourseGraph
	if err := c.doJSON(ctx, http.MethodGet, "/analysis/course-graph", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Nodes == nil {
		return nil, fmt.Errorf("course graph response missing nodes")
	}
	return &resp, nil
}

// Credits totals credits across the requested semesters.
func (c *Client) Credits(ctx context.Context, semesters []string) (*models.CreditsBreakdown, error) {
	req := creditsRequest{Semesters: semesters}

	var resp creditsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/analysis/credits", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.TotalCredits == nil || resp.Breakdown == nil {
		return nil, fmt.Errorf("credits response missing total_credits or breakdown")
	}
	return &models.CreditsBreakdown{
		TotalCredits: *resp.TotalCredits,
		Breakdown:    resp.Breakdown,
	}, nil
}

// Prerequisites checks prerequisites for a course code.
func (c *Client) Prerequisites(ctx context.Context, courseCode string) (*models.PrerequisiteCheck, error) {
	var resp models.PrerequisiteCheck
	if err := c.doJSON(ctx, http.MethodGet, "/analysis/prerequisites/"+url.PathEscape(courseCode), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Course.Code == "" {
		return nil, fmt.Errorf("prerequisites response missing course")
	}
	return &resp, nil
}

// Specialization fetches a specialization roadmap by slug.
func (c *Client) Specialization(ctx context.Context, slug string) (*models.Specialization, error) {
	var resp models.Specialization
	if err := c.doJSON(ctx, http.MethodGet, "/analysis/specializations/"+url.PathEscape(slug), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Specialization == "" || resp.Title == "" {
		return nil, fmt.Errorf("specialization response missing specialization or title")
	}
	return &resp, nil
}

// ExamHelper fetches exam preparation suggestions for a focus area.
func (c *Client) ExamHelper(ctx context.Context, focus string) (*models.ExamTips, error) {
	query := url.Values{}
	if focus != "" {
		query.Set("focus", focus)
	}

	var resp models.ExamTips
	if err := c.doJSON(ctx, http.MethodGet, "/analysis/exam-helper", query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Suggestions == nil {
		return nil, fmt.Errorf("exam helper response missing suggestions")
	}
	return &resp, nil
}

// CareerPaths maps completed courses to matching career paths.
func (c *Client) CareerPaths(ctx context.Context, completedCourses []string) (*models.CareerPaths, error) {
	req := careerPathRequest{CompletedCourses: completedCourses}

	var resp models.CareerPaths
	if err := c.doJSON(ctx, http.MethodPost, "/analysis/career-path", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.MatchingPaths == nil {
		return nil, fmt.Errorf("career path response missing matching_paths")
	}
	return &resp, nil
}
