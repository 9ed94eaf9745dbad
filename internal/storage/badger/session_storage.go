package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// activePointerKey is the fixed key the active session pointer lives under
const activePointerKey = "active_session"

// activePointer is the persisted active session record
type activePointer struct {
	Key       string `badgerhold:"key"`
	SessionID string
	UpdatedAt time.Time
}

// SessionStorage implements the SessionStorage interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSession persists a session snapshot
func (s *SessionStorage) SaveSession(state *interfaces.SessionState) error {
	if state.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if err := s.db.Store().Upsert(state.ID, state); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.ID, err)
	}
	return nil
}

// GetSession retrieves a session snapshot by id; nil if unknown
func (s *SessionStorage) GetSession(id string) (*interfaces.SessionState, error) {
	var state interfaces.SessionState
	err := s.db.Store().Get(id, &state)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &state, nil
}

// ListSessions returns all persisted sessions ordered by updated_at DESC
func (s *SessionStorage) ListSessions() ([]*interfaces.SessionState, error) {
	var states []*interfaces.SessionState
	err := s.db.Store().Find(&states, badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return states, nil
}

// DeleteSession removes a session snapshot; deleting an unknown session is a no-op
func (s *SessionStorage) DeleteSession(id string) error {
	err := s.db.Store().Delete(id, &interfaces.SessionState{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// SaveActiveSession persists the active session pointer; empty clears it
func (s *SessionStorage) SaveActiveSession(id string) error {
	pointer := activePointer{
		Key:       activePointerKey,
		SessionID: id,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Store().Upsert(activePointerKey, &pointer); err != nil {
		return fmt.Errorf("failed to save active session pointer: %w", err)
	}
	return nil
}

// GetActiveSession returns the persisted active session id, or empty
func (s *SessionStorage) GetActiveSession() (string, error) {
	var pointer activePointer
	err := s.db.Store().Get(activePointerKey, &pointer)
	if err == badgerhold.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active session pointer: %w", err)
	}
	return pointer.SessionID, nil
}
