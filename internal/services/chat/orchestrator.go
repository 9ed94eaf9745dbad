package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Orchestrator drives the ask-question workflow. Per exchange the state
// machine runs Idle -> Sending -> {Succeeded | Failed}. The session id is
// captured at send time, so a response belonging to a session the user has
// switched away from still updates that session's stored log.
type Orchestrator struct {
	mu         sync.Mutex
	backend    interfaces.ChatBackend
	store      interfaces.SessionService
	events     interfaces.EventService
	logger     arbor.ILogger
	state      interfaces.AskState
	lastFailed string
}

// NewOrchestrator creates a chat orchestrator
func NewOrchestrator(
	backend interfaces.ChatBackend,
	store interfaces.SessionService,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		store:   store,
		events:  events,
		logger:  logger,
		state:   interfaces.AskStateIdle,
	}
}

// Ask sends a question bound to the active session (or none). Multiple
// in-flight asks against the same session are not serialized; their
// message pairs land in completion order.
func (o *Orchestrator) Ask(ctx context.Context, question string) (*interfaces.AskResult, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return nil, models.NewValidationError("Question cannot be empty.")
	}

	// Capture send-time state: active session and the user message
	sentSession := o.store.ActiveSession()
	user := models.Message{
		ID:        common.NewMessageID(),
		Role:      models.MessageRoleUser,
		Text:      trimmed,
		Timestamp: time.Now(),
	}

	o.setState(interfaces.AskStateSending)

	reply, err := o.backend.Ask(ctx, trimmed, sentSession)
	if err != nil {
		// Preserve the question text so the caller can resubmit
		o.mu.Lock()
		o.state = interfaces.AskStateFailed
		o.lastFailed = trimmed
		o.mu.Unlock()

		o.logger.Warn().Err(err).Str("session_id", sentSession).Msg("Ask failed")
		return nil, err
	}

	// Writes are keyed by the send-time session; the backend-assigned id
	// only becomes active when no session was active at send time and none
	// has been assigned since (first response wins). The check and the set
	// hold o.mu together so two such responses cannot interleave.
	target := sentSession
	if target == "" {
		target = reply.SessionID
		o.mu.Lock()
		if o.store.ActiveSession() == "" {
			if err := o.store.SetActive(reply.SessionID); err != nil {
				o.logger.Warn().Err(err).Str("session_id", reply.SessionID).Msg("Failed to persist active session")
			}
		}
		o.mu.Unlock()
	}

	assistant := models.Message{
		ID:                    common.NewMessageID(),
		Role:                  models.MessageRoleAssistant,
		Text:                  reply.Answer,
		Timestamp:             time.Now(),
		Sources:               reply.Sources,
		Confidence:            reply.Confidence,
		ConfidenceExplanation: reply.ConfidenceExplanation,
		FollowUp:              reply.FollowUpQuestion,
	}

	if err := o.store.AppendExchange(target, user, assistant); err != nil {
		o.mu.Lock()
		o.state = interfaces.AskStateFailed
		o.lastFailed = trimmed
		o.mu.Unlock()
		return nil, err
	}

	o.mu.Lock()
	o.state = interfaces.AskStateSucceeded
	o.lastFailed = ""
	o.mu.Unlock()

	result := &interfaces.AskResult{
		SessionID: target,
		User:      user,
		Assistant: assistant,
	}

	_ = o.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventChatExchange,
		Payload: result,
	})

	o.logger.Info().
		Str("session_id", target).
		Int("sources", len(reply.Sources)).
		Msg("Exchange completed")

	return result, nil
}

// NewSession creates a backend session, gives it an empty local log and
// makes it active
func (o *Orchestrator) NewSession(ctx context.Context) (string, error) {
	sessionID, err := o.backend.CreateSession(ctx)
	if err != nil {
		return "", err
	}

	if err := o.store.ReplaceMessages(sessionID, nil); err != nil {
		return "", err
	}
	if err := o.store.SetActive(sessionID); err != nil {
		return "", err
	}

	o.logger.Info().Str("session_id", sessionID).Msg("Session created")
	return sessionID, nil
}

// SelectSession changes the active session. In-flight asks are unaffected:
// their responses still land on the session captured at send time.
func (o *Orchestrator) SelectSession(sessionID string) error {
	return o.store.SetActive(sessionID)
}

// DeleteSession removes the session from the backend and the local store.
// On backend failure the local log is left untouched and the error surfaced.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	if err := o.backend.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	if err := o.store.Remove(sessionID); err != nil {
		return err
	}

	_ = o.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventSessionRemoved,
		Payload: sessionID,
	})

	o.logger.Info().Str("session_id", sessionID).Msg("Session deleted")
	return nil
}

// Backfill replaces a session's local log with the backend's history.
// Used to repopulate the cache for sessions created on another client.
func (o *Orchestrator) Backfill(ctx context.Context, sessionID string) error {
	messages, err := o.backend.ChatHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	return o.store.ReplaceMessages(sessionID, messages)
}

// RemoteSessions lists the backend's sessions. The listing is returned as-is;
// it is never merged with the local store.
func (o *Orchestrator) RemoteSessions(ctx context.Context) ([]models.SessionInfo, error) {
	return o.backend.ListSessions(ctx)
}

// ActiveSession returns the active session id, or empty
func (o *Orchestrator) ActiveSession() string {
	return o.store.ActiveSession()
}

// State returns the state of the most recent exchange
func (o *Orchestrator) State() interfaces.AskState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastFailedQuestion returns the preserved question text of the most recent
// failed ask, or empty
func (o *Orchestrator) LastFailedQuestion() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastFailed
}

func (o *Orchestrator) setState(state interfaces.AskState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}
