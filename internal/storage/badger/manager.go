package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
)

// Manager provides access to all Badger-backed storage
type Manager struct {
	db              *BadgerDB
	sessionStorage  interfaces.SessionStorage
	documentStorage interfaces.DocumentStorage
	logger          arbor.ILogger
}

// NewManager opens the database and wires the typed storages
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:              db,
		sessionStorage:  NewSessionStorage(db, logger),
		documentStorage: NewDocumentStorage(db, logger),
		logger:          logger,
	}, nil
}

// SessionStorage returns the session storage backend
func (m *Manager) SessionStorage() interfaces.SessionStorage {
	return m.sessionStorage
}

// DocumentStorage returns the document snapshot storage backend
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.documentStorage
}

// Close closes the database connection
func (m *Manager) Close() error {
	return m.db.Close()
}
