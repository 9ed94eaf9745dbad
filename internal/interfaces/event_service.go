package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	EventNotification   EventType = "notification"    // Advisory user-facing notice (toast equivalent)
	EventChatExchange   EventType = "chat_exchange"   // A question/answer pair was stored
	EventDocumentStatus EventType = "document_status" // A document reached a new status
	EventUploadProgress EventType = "upload_progress" // Fractional upload progress [0,100]
	EventSessionRemoved EventType = "session_removed" // A session was deleted locally
)

// NotificationLevel classifies a notification for the UI
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is the payload of EventNotification events. It is advisory
// UI feedback only, never part of an error contract returned to callers.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the pub/sub event bus
type EventService interface {
	// Subscribe registers a handler for an event type and returns a
	// subscription id usable with Unsubscribe
	Subscribe(eventType EventType, handler EventHandler) (int, error)

	// Unsubscribe removes a previously registered handler
	Unsubscribe(eventType EventType, id int) error

	// Publish sends an event to all subscribers asynchronously
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes an event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
