package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Ask sends a question to the backend. sessionID may be empty, in which case
// the backend assigns one and returns it in the reply.
func (c *Client) Ask(ctx context.Context, question, sessionID string) (*interfaces.AskReply, error) {
	req := askRequest{
		Question:  question,
		SessionID: sessionID,
	}

	var resp askResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/ask", nil, req, &resp); err != nil {
		return nil, err
	}

	if resp.SessionID == "" {
		return nil, fmt.Errorf("ask response missing session_id")
	}

	return &interfaces.AskReply{
		Answer:                resp.Answer,
		Sources:               resp.Sources,
		Confidence:            resp.Confidence,
		ConfidenceExplanation: resp.ConfidenceExplanation,
		FollowUpQuestion:      resp.FollowUpQuestion,
		SessionID:             resp.SessionID,
	}, nil
}

// CreateSession creates a new backend session and returns its identifier.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp sessionCreateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/sessions", nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("create session response missing session_id")
	}
	return resp.SessionID, nil
}

// DeleteSession removes a backend session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	var resp sessionDeleteResponse
	return c.doJSON(ctx, http.MethodDelete, "/chat/sessions/"+url.PathEscape(sessionID), nil, nil, &resp)
}

// ListSessions returns the backend's session listing.
func (c *Client) ListSessions(ctx context.Context) ([]models.SessionInfo, error) {
	var resp []models.SessionInfo
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ChatHistory fetches a session's exchange history and flattens it into the
// local message log shape: one user and one assistant message per exchange.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	query := url.Values{}
	query.Set("session_id", sessionID)

	var resp historyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history", query, nil, &resp); err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(resp.Messages)*2)
	for _, item := range resp.Messages {
		ts := unixToTime(item.TS)
		messages = append(messages, models.Message{
			ID:        common.NewMessageID(),
			Role:      models.MessageRoleUser,
			Text:      item.Question,
			Timestamp: ts,
		})
		messages = append(messages, models.Message{
			ID:                    common.NewMessageID(),
			Role:                  models.MessageRoleAssistant,
			Text:                  item.Answer,
			Timestamp:             ts,
			Sources:               item.Sources,
			Confidence:            item.Confidence,
			ConfidenceExplanation: item.ConfidenceExplanation,
			FollowUp:              item.FollowUpQuestion,
		})
	}

	return messages, nil
}

func unixToTime(ts float64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
