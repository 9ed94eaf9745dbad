package interfaces

import (
	"time"

	"github.com/ternarybob/rogo/internal/models"
)

// SessionService is the write-through cached session store. Every mutation
// is flushed to durable storage before the call returns, so a reload never
// loses an acknowledged exchange.
type SessionService interface {
	// Messages returns the session's ordered log; empty if unknown
	Messages(sessionID string) []models.Message

	// ReplaceMessages overwrites the session's log atomically
	ReplaceMessages(sessionID string, messages []models.Message) error

	// AppendExchange appends a user/assistant pair atomically: both messages
	// are stored or neither is
	AppendExchange(sessionID string, user, assistant models.Message) error

	// SetActive changes which session subsequent asks attach to; an empty
	// id clears the active session. It does not create or delete sessions.
	SetActive(sessionID string) error

	// ActiveSession returns the active session id, or empty if none
	ActiveSession() string

	// Remove deletes the session's cached log; if it was active, active
	// becomes none
	Remove(sessionID string) error

	// Sessions lists all locally known sessions
	Sessions() []*SessionState

	// Sweep removes sessions idle longer than maxIdle, skipping the active
	// session. Returns the number of sessions removed.
	Sweep(maxIdle time.Duration) (int, error)
}
