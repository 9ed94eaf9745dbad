package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Service is the write-through cached session store. The in-memory cache and
// the persisted storage are reconciled on every mutation: storage is written
// first, and the cache is only updated once the write succeeds, so a reload
// never loses an acknowledged exchange and a failed write changes nothing.
type Service struct {
	mu       sync.RWMutex
	storage  interfaces.SessionStorage
	logger   arbor.ILogger
	sessions map[string]*interfaces.SessionState
	active   string
}

// NewService creates a session service and loads persisted state. A missing
// or unreadable store yields an empty initial state, never an error.
func NewService(storage interfaces.SessionStorage, logger arbor.ILogger) *Service {
	s := &Service{
		storage:  storage,
		logger:   logger,
		sessions: make(map[string]*interfaces.SessionState),
	}

	states, err := storage.ListSessions()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load persisted sessions, starting empty")
	} else {
		for _, state := range states {
			s.sessions[state.ID] = state
		}
	}

	active, err := storage.GetActiveSession()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load active session pointer, starting with none")
	} else if active != "" {
		// A dangling pointer to a removed session is treated as none
		if _, ok := s.sessions[active]; ok {
			s.active = active
		}
	}

	logger.Debug().
		Int("sessions", len(s.sessions)).
		Str("active", s.active).
		Msg("Session store loaded")

	return s
}

// Messages returns the session's ordered log; empty if unknown
func (s *Service) Messages(sessionID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]models.Message(nil), state.Messages...)
}

// ReplaceMessages overwrites the session's log atomically, creating the
// session if unknown
func (s *Service) ReplaceMessages(sessionID string, messages []models.Message) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateFor(sessionID)
	next := *state
	next.Messages = append([]models.Message(nil), messages...)
	next.UpdatedAt = time.Now()

	if err := s.storage.SaveSession(&next); err != nil {
		return fmt.Errorf("failed to persist session %s: %w", sessionID, err)
	}

	s.sessions[sessionID] = &next
	return nil
}

// AppendExchange appends a user/assistant pair atomically. The pair is
// persisted in one storage write; on failure neither message is kept.
func (s *Service) AppendExchange(sessionID string, user, assistant models.Message) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateFor(sessionID)
	next := *state
	next.Messages = append(append([]models.Message(nil), state.Messages...), user, assistant)
	next.UpdatedAt = time.Now()

	if err := s.storage.SaveSession(&next); err != nil {
		return fmt.Errorf("failed to persist exchange for session %s: %w", sessionID, err)
	}

	s.sessions[sessionID] = &next

	s.logger.Debug().
		Str("session_id", sessionID).
		Int("messages", len(next.Messages)).
		Msg("Exchange appended")

	return nil
}

// SetActive changes which session subsequent asks attach to; empty clears it.
// Does not create or delete sessions.
func (s *Service) SetActive(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SaveActiveSession(sessionID); err != nil {
		return fmt.Errorf("failed to persist active session: %w", err)
	}

	s.active = sessionID
	return nil
}

// ActiveSession returns the active session id, or empty if none
func (s *Service) ActiveSession() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Remove deletes the session's cached log; if it was active, active becomes none
func (s *Service) Remove(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	if s.active == sessionID {
		if err := s.storage.SaveActiveSession(""); err != nil {
			return fmt.Errorf("failed to clear active session: %w", err)
		}
		s.active = ""
	}

	delete(s.sessions, sessionID)
	return nil
}

// Sessions lists all locally known sessions
func (s *Service) Sessions() []*interfaces.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]*interfaces.SessionState, 0, len(s.sessions))
	for _, state := range s.sessions {
		clone := *state
		clone.Messages = append([]models.Message(nil), state.Messages...)
		states = append(states, &clone)
	}
	return states
}

// Sweep removes sessions idle longer than maxIdle, skipping the active
// session. Returns the number of sessions removed.
func (s *Service) Sweep(maxIdle time.Duration) (int, error) {
	if maxIdle <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0

	for id, state := range s.sessions {
		if id == s.active {
			continue
		}
		if state.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.storage.DeleteSession(id); err != nil {
			return removed, fmt.Errorf("failed to sweep session %s: %w", id, err)
		}
		delete(s.sessions, id)
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Swept idle sessions")
	}

	return removed, nil
}

// stateFor returns the cached state for a session, creating a fresh one if
// unknown. Caller holds the lock.
func (s *Service) stateFor(sessionID string) *interfaces.SessionState {
	if state, ok := s.sessions[sessionID]; ok {
		return state
	}
	now := time.Now()
	return &interfaces.SessionState{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
