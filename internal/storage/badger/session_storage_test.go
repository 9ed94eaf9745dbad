package badger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestSessionRoundTrip(t *testing.T) {
	storage := newTestManager(t).SessionStorage()

	state := &interfaces.SessionState{
		ID: "s1",
		Messages: []models.Message{
			{ID: "m1", Role: models.MessageRoleUser, Text: "question"},
			{ID: "m2", Role: models.MessageRoleAssistant, Text: "answer", Confidence: 0.6},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, storage.SaveSession(state))

	loaded, err := storage.GetSession("s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "answer", loaded.Messages[1].Text)
	assert.InDelta(t, 0.6, loaded.Messages[1].Confidence, 0.001)
}

func TestGetUnknownSessionReturnsNil(t *testing.T) {
	storage := newTestManager(t).SessionStorage()

	loaded, err := storage.GetSession("missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestListSessionsOrderedByUpdatedAt(t *testing.T) {
	storage := newTestManager(t).SessionStorage()

	now := time.Now()
	require.NoError(t, storage.SaveSession(&interfaces.SessionState{ID: "older", UpdatedAt: now.Add(-time.Hour)}))
	require.NoError(t, storage.SaveSession(&interfaces.SessionState{ID: "newer", UpdatedAt: now}))

	states, err := storage.ListSessions()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "newer", states[0].ID)
	assert.Equal(t, "older", states[1].ID)
}

func TestDeleteUnknownSessionIsNoOp(t *testing.T) {
	storage := newTestManager(t).SessionStorage()
	assert.NoError(t, storage.DeleteSession("missing"))
}

func TestActiveSessionPointerRoundTrip(t *testing.T) {
	storage := newTestManager(t).SessionStorage()

	active, err := storage.GetActiveSession()
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, storage.SaveActiveSession("s1"))
	active, err = storage.GetActiveSession()
	require.NoError(t, err)
	assert.Equal(t, "s1", active)

	require.NoError(t, storage.SaveActiveSession(""))
	active, err = storage.GetActiveSession()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDocumentSnapshotRoundTrip(t *testing.T) {
	storage := newTestManager(t).DocumentStorage()

	empty, err := storage.GetSnapshot()
	require.NoError(t, err)
	assert.Empty(t, empty)

	chunks := 3
	require.NoError(t, storage.SaveSnapshot([]*models.Document{
		{ID: "d1", Filename: "a.pdf", Status: models.DocumentStatusCompleted, Chunks: &chunks},
		{ID: "d2", Filename: "b.pdf", Status: models.DocumentStatusProcessing},
	}))

	docs, err := storage.GetSnapshot()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 3, *docs[0].Chunks)

	// A later save replaces the snapshot wholesale
	require.NoError(t, storage.SaveSnapshot([]*models.Document{
		{ID: "d2", Filename: "b.pdf", Status: models.DocumentStatusCompleted},
	}))
	docs, err = storage.GetSnapshot()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d2", docs[0].ID)
}
