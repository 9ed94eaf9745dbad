package interfaces

import (
	"context"

	"github.com/ternarybob/rogo/internal/models"
)

// AskState is the per-exchange state machine of the chat orchestrator
type AskState string

const (
	AskStateIdle      AskState = "idle"
	AskStateSending   AskState = "sending"
	AskStateSucceeded AskState = "succeeded"
	AskStateFailed    AskState = "failed"
)

// AskResult is one completed exchange
type AskResult struct {
	SessionID string         `json:"session_id"`
	User      models.Message `json:"user"`
	Assistant models.Message `json:"assistant"`
}

// ChatService drives the ask-question workflow against the backend and the
// session store
type ChatService interface {
	// Ask sends a question bound to the active session (or none). On success
	// the user and assistant messages are appended atomically to the session
	// captured at send time. On failure nothing is appended and the question
	// text is preserved for resubmission.
	Ask(ctx context.Context, question string) (*AskResult, error)

	// NewSession creates a backend session and makes it active
	NewSession(ctx context.Context) (string, error)

	// SelectSession changes the active session without cancelling any
	// in-flight ask
	SelectSession(sessionID string) error

	// DeleteSession removes the session from the backend and the local store
	DeleteSession(ctx context.Context, sessionID string) error

	// Backfill replaces a session's local log with the backend's history
	Backfill(ctx context.Context, sessionID string) error

	// RemoteSessions lists the backend's sessions; local and remote
	// listings are never merged
	RemoteSessions(ctx context.Context) ([]models.SessionInfo, error)

	// ActiveSession returns the active session id, or empty
	ActiveSession() string

	// State returns the state of the most recent exchange
	State() AskState

	// LastFailedQuestion returns the preserved question text of the most
	// recent failed ask, or empty
	LastFailedQuestion() string
}
