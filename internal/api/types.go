// Package api provides the client for the remote document-Q&A backend.
// This package centralizes all backend REST interactions for the application.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"golang.org/x/time/rate"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the fixed per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithEvents sets the event service used for advisory notifications.
func WithEvents(events interfaces.EventService) ClientOption {
	return func(c *Client) {
		c.events = events
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// Wire formats, matching the backend's JSON surface exactly.

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type askResponse struct {
	Answer                string                  `json:"answer"`
	Sources               []models.SourceCitation `json:"sources"`
	Confidence            float64                 `json:"confidence"`
	ConfidenceExplanation string                  `json:"confidence_explanation"`
	FollowUpQuestion      string                  `json:"follow_up_question,omitempty"`
	SessionID             string                  `json:"session_id"`
}

type sessionCreateResponse struct {
	SessionID string `json:"session_id"`
}

type sessionDeleteResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type historyResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []historyItem `json:"messages"`
}

// historyItem is the backend's per-exchange history record
type historyItem struct {
	TS                    float64                 `json:"ts"`
	Question              string                  `json:"question"`
	Answer                string                  `json:"answer"`
	Sources               []models.SourceCitation `json:"sources"`
	Confidence            float64                 `json:"confidence"`
	ConfidenceExplanation string                  `json:"confidence_explanation"`
	FollowUpQuestion      string                  `json:"follow_up_question,omitempty"`
}

type uploadResponse struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type documentInfo struct {
	DocID         string `json:"doc_id"`
	Filename      string `json:"filename"`
	Size          *int64 `json:"size,omitempty"`
	UploadedBytes *int64 `json:"uploaded_bytes,omitempty"`
	Status        string `json:"status"`
	Chunks        *int   `json:"chunks,omitempty"`
}

type documentListResponse struct {
	Documents []documentInfo `json:"documents"`
}

type documentStatusResponse struct {
	DocID         string `json:"doc_id"`
	Status        string `json:"status"`
	UploadedBytes *int64 `json:"uploaded_bytes,omitempty"`
	Size          *int64 `json:"size,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Chunks        *int   `json:"chunks,omitempty"`
}

type documentDeleteResponse struct {
	DocID  string `json:"doc_id"`
	Status string `json:"status"`
}

type creditsRequest struct {
	Semesters []string `json:"semesters"`
}

// creditsResponse uses a pointer total so an absent field is distinguishable
// from a legitimate zero
type creditsResponse struct {
	TotalCredits *int           `json:"total_credits"`
	Breakdown    map[string]int `json:"breakdown"`
}

type careerPathRequest struct {
	CompletedCourses []string `json:"completed_courses"`
}

// errorEnvelope covers both backend error shapes: a plain detail string and
// the per-field validation list FastAPI emits on 422.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldErrorItem struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

func (d documentInfo) toModel() *models.Document {
	return &models.Document{
		ID:            d.DocID,
		Filename:      d.Filename,
		Status:        models.DocumentStatus(d.Status),
		Size:          d.Size,
		UploadedBytes: d.UploadedBytes,
		Chunks:        d.Chunks,
	}
}
