// Package memory provides in-memory storage backends used in tests and
// ephemeral runs where durability is not required.
package memory

import (
	"sync"

	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// SessionStorage is an in-memory SessionStorage implementation
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*interfaces.SessionState
	active   string
}

// NewSessionStorage creates an empty in-memory session storage
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[string]*interfaces.SessionState),
	}
}

func (s *SessionStorage) SaveSession(state *interfaces.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *state
	clone.Messages = append([]models.Message(nil), state.Messages...)
	s.sessions[state.ID] = &clone
	return nil
}

func (s *SessionStorage) GetSession(id string) (*interfaces.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *state
	clone.Messages = append([]models.Message(nil), state.Messages...)
	return &clone, nil
}

func (s *SessionStorage) ListSessions() ([]*interfaces.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make([]*interfaces.SessionState, 0, len(s.sessions))
	for _, state := range s.sessions {
		clone := *state
		clone.Messages = append([]models.Message(nil), state.Messages...)
		states = append(states, &clone)
	}
	return states, nil
}

func (s *SessionStorage) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStorage) SaveActiveSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return nil
}

func (s *SessionStorage) GetActiveSession() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}

// DocumentStorage is an in-memory DocumentStorage implementation
type DocumentStorage struct {
	mu   sync.RWMutex
	docs []*models.Document
}

// NewDocumentStorage creates an empty in-memory document snapshot storage
func NewDocumentStorage() *DocumentStorage {
	return &DocumentStorage{}
}

func (s *DocumentStorage) SaveSnapshot(docs []*models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append([]*models.Document(nil), docs...)
	return nil
}

func (s *DocumentStorage) GetSnapshot() ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Document(nil), s.docs...), nil
}
