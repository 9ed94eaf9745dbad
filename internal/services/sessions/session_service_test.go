package sessions

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.SessionStorage) {
	t.Helper()
	storage := memory.NewSessionStorage()
	return NewService(storage, arbor.NewLogger()), storage
}

func pair(user, assistant string) (models.Message, models.Message) {
	now := time.Now()
	return models.Message{ID: "u-" + user, Role: models.MessageRoleUser, Text: user, Timestamp: now},
		models.Message{ID: "a-" + assistant, Role: models.MessageRoleAssistant, Text: assistant, Timestamp: now}
}

func TestAppendExchangeStoresPair(t *testing.T) {
	svc, _ := newTestService(t)

	u, a := pair("q1", "a1")
	require.NoError(t, svc.AppendExchange("s1", u, a))

	messages := svc.Messages("s1")
	require.Len(t, messages, 2)
	assert.Equal(t, models.MessageRoleUser, messages[0].Role)
	assert.Equal(t, "q1", messages[0].Text)
	assert.Equal(t, models.MessageRoleAssistant, messages[1].Role)
}

func TestAppendExchangeSurvivesReload(t *testing.T) {
	storage := memory.NewSessionStorage()
	svc := NewService(storage, arbor.NewLogger())

	u1, a1 := pair("q1", "a1")
	u2, a2 := pair("q2", "a2")
	require.NoError(t, svc.AppendExchange("s1", u1, a1))
	require.NoError(t, svc.AppendExchange("s1", u2, a2))
	require.NoError(t, svc.SetActive("s1"))

	// A fresh service over the same storage reproduces the full state
	reloaded := NewService(storage, arbor.NewLogger())
	messages := reloaded.Messages("s1")
	require.Len(t, messages, 4)
	assert.Equal(t, "q2", messages[2].Text)
	assert.Equal(t, "s1", reloaded.ActiveSession())
}

func TestFailedPersistLeavesCacheUntouched(t *testing.T) {
	storage := &failingStorage{SessionStorage: memory.NewSessionStorage()}
	svc := NewService(storage, arbor.NewLogger())

	u1, a1 := pair("q1", "a1")
	require.NoError(t, svc.AppendExchange("s1", u1, a1))

	storage.fail = true
	u2, a2 := pair("q2", "a2")
	err := svc.AppendExchange("s1", u2, a2)
	require.Error(t, err)

	// Neither message of the failed pair is visible
	messages := svc.Messages("s1")
	require.Len(t, messages, 2)
	assert.Equal(t, "q1", messages[0].Text)
}

func TestRemoveActiveClearsPointer(t *testing.T) {
	svc, storage := newTestService(t)

	u, a := pair("q", "a")
	require.NoError(t, svc.AppendExchange("s1", u, a))
	require.NoError(t, svc.SetActive("s1"))

	require.NoError(t, svc.Remove("s1"))

	assert.Empty(t, svc.ActiveSession())
	assert.Empty(t, svc.Messages("s1"))

	persisted, err := storage.GetActiveSession()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestDanglingActivePointerIgnoredOnLoad(t *testing.T) {
	storage := memory.NewSessionStorage()
	require.NoError(t, storage.SaveActiveSession("ghost"))

	svc := NewService(storage, arbor.NewLogger())
	assert.Empty(t, svc.ActiveSession())
}

func TestSweepSkipsActiveAndRecentSessions(t *testing.T) {
	storage := memory.NewSessionStorage()
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, storage.SaveSession(&interfaces.SessionState{ID: "stale", UpdatedAt: old}))
	require.NoError(t, storage.SaveSession(&interfaces.SessionState{ID: "stale-active", UpdatedAt: old}))
	require.NoError(t, storage.SaveSession(&interfaces.SessionState{ID: "fresh", UpdatedAt: time.Now()}))
	require.NoError(t, storage.SaveActiveSession("stale-active"))

	svc := NewService(storage, arbor.NewLogger())

	removed, err := svc.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	ids := make(map[string]bool)
	for _, s := range svc.Sessions() {
		ids[s.ID] = true
	}
	assert.False(t, ids["stale"])
	assert.True(t, ids["stale-active"], "active session is never swept")
	assert.True(t, ids["fresh"])
}

func TestSweepDisabledWithZeroTTL(t *testing.T) {
	svc, _ := newTestService(t)

	u, a := pair("q", "a")
	require.NoError(t, svc.AppendExchange("s1", u, a))

	removed, err := svc.Sweep(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// failingStorage wraps the in-memory storage and fails writes on demand
type failingStorage struct {
	*memory.SessionStorage
	fail bool
}

func (s *failingStorage) SaveSession(state *interfaces.SessionState) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.SessionStorage.SaveSession(state)
}
