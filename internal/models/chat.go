package models

import "time"

// MessageRole identifies who produced a message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// SourceCitation is one document citation attached to an assistant answer.
// Ordering is the order returned by the backend; no de-duplication is performed.
type SourceCitation struct {
	Index int      `json:"index"`
	Name  string   `json:"name"`
	Page  *int     `json:"page,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Message is one entry in a session's conversation log.
// Immutable once appended to a session.
type Message struct {
	ID                    string           `json:"id"`
	Role                  MessageRole      `json:"role"`
	Text                  string           `json:"text"`
	Timestamp             time.Time        `json:"timestamp"`
	Sources               []SourceCitation `json:"sources,omitempty"`
	Confidence            float64          `json:"confidence,omitempty"` // Assistant messages only, [0,1]
	ConfidenceExplanation string           `json:"confidence_explanation,omitempty"`
	FollowUp              string           `json:"follow_up,omitempty"`
}

// SessionInfo is the backend's session listing entry
type SessionInfo struct {
	SessionID    string  `json:"session_id"`
	MessageCount int     `json:"message_count"`
	UpdatedAt    float64 `json:"updated_at"` // Unix seconds, backend convention
}
