package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local bridge only, no cross-origin concerns
	},
}

// streamedEvents are the event types forwarded to connected UI clients
var streamedEvents = []interfaces.EventType{
	interfaces.EventNotification,
	interfaces.EventChatExchange,
	interfaces.EventDocumentStatus,
	interfaces.EventUploadProgress,
	interfaces.EventSessionRemoved,
}

// wsMessage is one frame pushed to UI clients
type wsMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

// WebSocketHandler streams events to connected UI clients
type WebSocketHandler struct {
	logger            arbor.ILogger
	eventService      interfaces.EventService
	clients           map[*websocket.Conn]bool
	clientMutex       map[*websocket.Conn]*sync.Mutex
	mu                sync.RWMutex
	progressThrottler *rate.Limiter // Upload progress fires per chunk, cap the frame rate
	subscriptions     map[interfaces.EventType]int
	serverInstanceID  string // Clients use this to detect a restart and resync
}

// NewWebSocketHandler creates the handler and subscribes it to the event bus
func NewWebSocketHandler(eventService interfaces.EventService, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:            logger,
		eventService:      eventService,
		clients:           make(map[*websocket.Conn]bool),
		clientMutex:       make(map[*websocket.Conn]*sync.Mutex),
		progressThrottler: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		subscriptions:     make(map[interfaces.EventType]int),
		serverInstanceID:  uuid.New().String(),
	}

	for _, eventType := range streamedEvents {
		id, err := eventService.Subscribe(eventType, h.handleEvent)
		if err != nil {
			logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Event subscription failed")
			continue
		}
		h.subscriptions[eventType] = id
	}

	return h
}

// HandleWebSocket upgrades the connection and registers the client
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Int("clients", count).Msg("WebSocket client connected")

	// Greet with the instance id so the UI can detect restarts
	h.send(conn, wsMessage{
		Type:      "connected",
		Payload:   map[string]string{"server_instance_id": h.serverInstanceID},
		Timestamp: time.Now().Format(time.RFC3339),
	})

	// Reader loop exists only to detect disconnects; clients never send data
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Close unsubscribes from the event bus and drops all clients
func (h *WebSocketHandler) Close() {
	for eventType, id := range h.subscriptions {
		_ = h.eventService.Unsubscribe(eventType, id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.clientMutex = make(map[*websocket.Conn]*sync.Mutex)
}

func (h *WebSocketHandler) handleEvent(ctx context.Context, event interfaces.Event) error {
	if event.Type == interfaces.EventUploadProgress && !h.progressThrottler.Allow() {
		return nil
	}

	h.broadcast(wsMessage{
		Type:      string(event.Type),
		Payload:   event.Payload,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return nil
}

func (h *WebSocketHandler) broadcast(msg wsMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.send(conn, msg)
	}
}

// send writes one frame, serialized per connection since gorilla allows only
// one concurrent writer
func (h *WebSocketHandler) send(conn *websocket.Conn, msg wsMessage) {
	h.mu.RLock()
	mu, ok := h.clientMutex[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	mu.Lock()
	err := conn.WriteJSON(msg)
	mu.Unlock()

	if err != nil {
		h.removeClient(conn)
	}
}

func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		conn.Close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Int("clients", count).Msg("WebSocket client disconnected")
}
