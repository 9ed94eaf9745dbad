package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// snapshotKey is the fixed key the document snapshot lives under
const snapshotKey = "document_snapshot"

// documentSnapshot is the persisted last-known document view
type documentSnapshot struct {
	Key       string `badgerhold:"key"`
	Documents []*models.Document
	UpdatedAt time.Time
}

// DocumentStorage implements the DocumentStorage interface for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSnapshot persists the last known document view wholesale
func (s *DocumentStorage) SaveSnapshot(docs []*models.Document) error {
	snapshot := documentSnapshot{
		Key:       snapshotKey,
		Documents: docs,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Store().Upsert(snapshotKey, &snapshot); err != nil {
		return fmt.Errorf("failed to save document snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the last known document view; empty if none persisted
func (s *DocumentStorage) GetSnapshot() ([]*models.Document, error) {
	var snapshot documentSnapshot
	err := s.db.Store().Get(snapshotKey, &snapshot)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document snapshot: %w", err)
	}
	return snapshot.Documents, nil
}
