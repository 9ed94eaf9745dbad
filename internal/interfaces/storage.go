package interfaces

import (
	"time"

	"github.com/ternarybob/rogo/internal/models"
)

// SessionState is the persisted snapshot of one session's conversation log
type SessionState struct {
	ID        string `badgerhold:"key"`
	Messages  []models.Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStorage persists session logs and the active session pointer.
// Implementations must treat missing records as empty state, not errors.
type SessionStorage interface {
	SaveSession(state *SessionState) error
	GetSession(id string) (*SessionState, error)
	ListSessions() ([]*SessionState, error)
	DeleteSession(id string) error

	// SaveActiveSession persists the active session pointer; empty clears it
	SaveActiveSession(id string) error
	GetActiveSession() (string, error)
}

// DocumentStorage persists the last known document snapshot so a restart
// shows the previous view until the first poll completes
type DocumentStorage interface {
	SaveSnapshot(docs []*models.Document) error
	GetSnapshot() ([]*models.Document, error)
}

// StorageManager provides access to all storage backends
type StorageManager interface {
	SessionStorage() SessionStorage
	DocumentStorage() DocumentStorage
	Close() error
}
