package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/rogo/internal/models"
)

// ProgressFunc receives fractional upload progress in [0,100]
type ProgressFunc func(percent float64)

// AskReply is the backend's answer to one question
type AskReply struct {
	Answer                string
	Sources               []models.SourceCitation
	Confidence            float64
	ConfidenceExplanation string
	FollowUpQuestion      string
	SessionID             string
}

// ChatBackend is the remote question-answering surface.
// sessionID may be empty; the backend assigns one and returns it.
type ChatBackend interface {
	Ask(ctx context.Context, question, sessionID string) (*AskReply, error)
	CreateSession(ctx context.Context) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]models.SessionInfo, error)
	ChatHistory(ctx context.Context, sessionID string) ([]models.Message, error)
}

// DocumentBackend is the remote document-ingestion surface
type DocumentBackend interface {
	UploadDocument(ctx context.Context, filename string, size int64, r io.Reader, progress ProgressFunc) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	DocumentStatus(ctx context.Context, docID string) (*models.Document, error)
	DeleteDocument(ctx context.Context, docID string) error
}

// AnalysisBackend is the remote curriculum-analysis surface
type AnalysisBackend interface {
	CourseGraph(ctx context.Context) (*models.CourseGraph, error)
	Credits(ctx context.Context, semesters []string) (*models.CreditsBreakdown, error)
	Prerequisites(ctx context.Context, courseCode string) (*models.PrerequisiteCheck, error)
	Specialization(ctx context.Context, slug string) (*models.Specialization, error)
	ExamHelper(ctx context.Context, focus string) (*models.ExamTips, error)
	CareerPaths(ctx context.Context, completedCourses []string) (*models.CareerPaths, error)
}
