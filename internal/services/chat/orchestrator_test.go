package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/events"
	"github.com/ternarybob/rogo/internal/services/sessions"
	"github.com/ternarybob/rogo/internal/storage/memory"
)

// fakeBackend scripts the remote surface per test
type fakeBackend struct {
	mu         sync.Mutex
	askCalls   int
	askFn      func(question, sessionID string) (*interfaces.AskReply, error)
	created    []string
	deleteErr  error
	historyFn  func(sessionID string) ([]models.Message, error)
	nextCreate string
	sessions   []models.SessionInfo
}

func (f *fakeBackend) Ask(ctx context.Context, question, sessionID string) (*interfaces.AskReply, error) {
	f.mu.Lock()
	f.askCalls++
	f.mu.Unlock()
	return f.askFn(question, sessionID)
}

func (f *fakeBackend) CreateSession(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, f.nextCreate)
	return f.nextCreate, nil
}

func (f *fakeBackend) DeleteSession(ctx context.Context, sessionID string) error {
	return f.deleteErr
}

func (f *fakeBackend) ListSessions(ctx context.Context) ([]models.SessionInfo, error) {
	return f.sessions, nil
}

func (f *fakeBackend) ChatHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	if f.historyFn != nil {
		return f.historyFn(sessionID)
	}
	return nil, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.askCalls
}

func newTestOrchestrator(t *testing.T, backend *fakeBackend) (*Orchestrator, interfaces.SessionService) {
	t.Helper()
	logger := arbor.NewLogger()
	store := sessions.NewService(memory.NewSessionStorage(), logger)
	return NewOrchestrator(backend, store, events.NewService(logger), logger), store
}

func TestAskAssignsBackendSessionWhenNoneActive(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(question, sessionID string) (*interfaces.AskReply, error) {
			assert.Empty(t, sessionID)
			return &interfaces.AskReply{Answer: "42", SessionID: "assigned-1", Confidence: 0.7}, nil
		},
	}
	orch, store := newTestOrchestrator(t, backend)

	result, err := orch.Ask(context.Background(), "What is the answer?")
	require.NoError(t, err)

	assert.Equal(t, "assigned-1", result.SessionID)
	assert.Equal(t, "assigned-1", store.ActiveSession())
	assert.Equal(t, interfaces.AskStateSucceeded, orch.State())

	messages := store.Messages("assigned-1")
	require.Len(t, messages, 2)
	assert.Equal(t, "What is the answer?", messages[0].Text)
	assert.Equal(t, "42", messages[1].Text)
}

func TestAskKeepsEarlierAssignedSessionActive(t *testing.T) {
	// The second response must not steal the active pointer assigned by the
	// first: writes go to the send-time session, activation is first wins
	backend := &fakeBackend{}
	orch, store := newTestOrchestrator(t, backend)

	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		return &interfaces.AskReply{Answer: "first", SessionID: "sess-A"}, nil
	}
	_, err := orch.Ask(context.Background(), "q1")
	require.NoError(t, err)
	require.Equal(t, "sess-A", store.ActiveSession())

	// Simulate a second ask that was sent before sess-A became active:
	// active is cleared to mimic send-time capture of an empty session
	require.NoError(t, store.SetActive(""))
	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		return &interfaces.AskReply{Answer: "second", SessionID: "sess-B"}, nil
	}
	_, err = orch.Ask(context.Background(), "q2")
	require.NoError(t, err)
	assert.Equal(t, "sess-B", store.ActiveSession())

	// Third ask lands in the now-active session, not a new one
	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		assert.Equal(t, "sess-B", sessionID)
		return &interfaces.AskReply{Answer: "third", SessionID: "sess-B"}, nil
	}
	_, err = orch.Ask(context.Background(), "q3")
	require.NoError(t, err)
	assert.Len(t, store.Messages("sess-B"), 4)
}

func TestConcurrentFirstAsksActivateFirstResponseOnly(t *testing.T) {
	// Two asks both sent with no active session: the first response to
	// arrive claims the active pointer, the second must not overwrite it
	bothSent := make(chan struct{})
	release := make(chan string)
	var sent int32

	backend := &fakeBackend{}
	orch, store := newTestOrchestrator(t, backend)
	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		assert.Empty(t, sessionID)
		if atomic.AddInt32(&sent, 1) == 2 {
			close(bothSent)
		}
		<-bothSent
		return &interfaces.AskReply{Answer: "a", SessionID: <-release}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orch.Ask(context.Background(), "question")
			assert.NoError(t, err)
		}()
	}

	release <- "sess-A"
	require.Eventually(t, func() bool {
		return store.ActiveSession() == "sess-A"
	}, time.Second, 5*time.Millisecond)

	release <- "sess-B"
	wg.Wait()

	assert.Equal(t, "sess-A", store.ActiveSession(), "later response must not steal the active pointer")
	assert.Len(t, store.Messages("sess-A"), 2)
	assert.Len(t, store.Messages("sess-B"), 2, "late response still lands on its own session")
}

func TestSequentialAsksAlternateRolesWithUniqueIDs(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(question, sessionID string) (*interfaces.AskReply, error) {
			return &interfaces.AskReply{Answer: "a: " + question, SessionID: "s1"}, nil
		},
	}
	orch, store := newTestOrchestrator(t, backend)

	const asks = 5
	for i := 0; i < asks; i++ {
		_, err := orch.Ask(context.Background(), "question")
		require.NoError(t, err)
	}

	messages := store.Messages("s1")
	require.Len(t, messages, 2*asks)

	seen := make(map[string]bool)
	for i, msg := range messages {
		if i%2 == 0 {
			assert.Equal(t, models.MessageRoleUser, msg.Role)
		} else {
			assert.Equal(t, models.MessageRoleAssistant, msg.Role)
		}
		assert.False(t, seen[msg.ID], "message id %s reused", msg.ID)
		seen[msg.ID] = true
	}
}

func TestAskEmptyQuestionNeverCallsBackend(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(question, sessionID string) (*interfaces.AskReply, error) {
			return &interfaces.AskReply{SessionID: "x"}, nil
		},
	}
	orch, _ := newTestOrchestrator(t, backend)

	_, err := orch.Ask(context.Background(), "   ")
	require.Error(t, err)

	_, ok := models.AsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, backend.calls())
}

func TestFailedAskPreservesQuestionAndLog(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(question, sessionID string) (*interfaces.AskReply, error) {
			return nil, &models.APIError{Status: 500, Message: "boom"}
		},
	}
	orch, store := newTestOrchestrator(t, backend)
	require.NoError(t, store.ReplaceMessages("s1", nil))
	require.NoError(t, store.SetActive("s1"))

	_, err := orch.Ask(context.Background(), "will fail")
	require.Error(t, err)

	assert.Equal(t, interfaces.AskStateFailed, orch.State())
	assert.Equal(t, "will fail", orch.LastFailedQuestion())
	assert.Empty(t, store.Messages("s1"), "failed ask must not append anything")

	// A later success clears the preserved question
	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		return &interfaces.AskReply{Answer: "ok", SessionID: "s1"}, nil
	}
	_, err = orch.Ask(context.Background(), "retry")
	require.NoError(t, err)
	assert.Empty(t, orch.LastFailedQuestion())
}

func TestResponseLandsOnSendTimeSessionAfterSwitch(t *testing.T) {
	backend := &fakeBackend{}
	orch, store := newTestOrchestrator(t, backend)
	require.NoError(t, store.ReplaceMessages("s1", nil))
	require.NoError(t, store.ReplaceMessages("s2", nil))
	require.NoError(t, store.SetActive("s1"))

	// The user switches to s2 while the ask is in flight
	backend.askFn = func(question, sessionID string) (*interfaces.AskReply, error) {
		require.NoError(t, store.SetActive("s2"))
		return &interfaces.AskReply{Answer: "late", SessionID: sessionID}, nil
	}

	result, err := orch.Ask(context.Background(), "slow question")
	require.NoError(t, err)

	assert.Equal(t, "s1", result.SessionID)
	assert.Len(t, store.Messages("s1"), 2)
	assert.Empty(t, store.Messages("s2"))
	assert.Equal(t, "s2", store.ActiveSession(), "switch is not undone by the response")
}

func TestNewSessionBecomesActiveWithEmptyLog(t *testing.T) {
	backend := &fakeBackend{nextCreate: "fresh-1"}
	orch, store := newTestOrchestrator(t, backend)

	id, err := orch.NewSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh-1", id)
	assert.Equal(t, "fresh-1", store.ActiveSession())
	assert.Empty(t, store.Messages("fresh-1"))
}

func TestDeleteSessionBackendFailureKeepsLocalLog(t *testing.T) {
	backend := &fakeBackend{deleteErr: errors.New("backend down")}
	orch, store := newTestOrchestrator(t, backend)

	u := models.Message{ID: "u1", Role: models.MessageRoleUser, Text: "q"}
	a := models.Message{ID: "a1", Role: models.MessageRoleAssistant, Text: "a"}
	require.NoError(t, store.AppendExchange("s1", u, a))

	err := orch.DeleteSession(context.Background(), "s1")
	require.Error(t, err)
	assert.Len(t, store.Messages("s1"), 2)
}

func TestBackfillReplacesLocalLog(t *testing.T) {
	backend := &fakeBackend{
		historyFn: func(sessionID string) ([]models.Message, error) {
			return []models.Message{
				{ID: "u1", Role: models.MessageRoleUser, Text: "remote q"},
				{ID: "a1", Role: models.MessageRoleAssistant, Text: "remote a"},
			}, nil
		},
	}
	orch, store := newTestOrchestrator(t, backend)

	stale := models.Message{ID: "old", Role: models.MessageRoleUser, Text: "stale"}
	require.NoError(t, store.ReplaceMessages("s1", []models.Message{stale}))

	require.NoError(t, orch.Backfill(context.Background(), "s1"))

	messages := store.Messages("s1")
	require.Len(t, messages, 2)
	assert.Equal(t, "remote q", messages[0].Text)
}

func TestRemoteSessionsPassThrough(t *testing.T) {
	backend := &fakeBackend{
		sessions: []models.SessionInfo{
			{SessionID: "sess-1", MessageCount: 4, UpdatedAt: 1700000000},
			{SessionID: "sess-2", MessageCount: 2, UpdatedAt: 1700000100},
		},
	}
	orchestrator, store := newTestOrchestrator(t, backend)

	infos, err := orchestrator.RemoteSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "sess-1", infos[0].SessionID)

	// Listing remote sessions is read-only: no local state is touched
	assert.Empty(t, store.ActiveSession())
}
