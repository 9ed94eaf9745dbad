package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
)

// ChatHandler exposes the chat workflow over the local UI bridge
type ChatHandler struct {
	chatService    interfaces.ChatService
	sessionService interfaces.SessionService
	logger         arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	chatService interfaces.ChatService,
	sessionService interfaces.SessionService,
	logger arbor.ILogger,
) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		sessionService: sessionService,
		logger:         logger,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// AskHandler handles POST /api/chat/ask
func (h *ChatHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.chatService.Ask(r.Context(), req.Question)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Ask request failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// SessionsHandler handles /api/chat/sessions: GET lists the locally known
// sessions, POST creates a new one and makes it active
func (h *ChatHandler) SessionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// scope=remote returns the backend's own listing, unmerged
		if r.URL.Query().Get("scope") == "remote" {
			sessions, err := h.chatService.RemoteSessions(r.Context())
			if err != nil {
				WriteServiceError(w, err)
				return
			}
			WriteJSON(w, http.StatusOK, map[string]interface{}{
				"sessions": sessions,
			})
			return
		}

		states := h.sessionService.Sessions()
		sessions := make([]map[string]interface{}, 0, len(states))
		for _, state := range states {
			sessions = append(sessions, map[string]interface{}{
				"session_id":    state.ID,
				"message_count": len(state.Messages),
				"updated_at":    state.UpdatedAt,
			})
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"sessions": sessions,
			"active":   h.chatService.ActiveSession(),
		})

	case http.MethodPost:
		sessionID, err := h.chatService.NewSession(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{
			"session_id": sessionID,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SessionRoutes dispatches /api/chat/sessions/{id} and its subpaths
func (h *ChatHandler) SessionRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chat/sessions/")
	sessionID, action, _ := strings.Cut(rest, "/")
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session id is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodDelete:
		if err := h.chatService.DeleteSession(r.Context(), sessionID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "Session deleted")

	case action == "select" && r.Method == http.MethodPost:
		if err := h.chatService.SelectSession(sessionID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "Session selected")

	case action == "backfill" && r.Method == http.MethodPost:
		if err := h.chatService.Backfill(r.Context(), sessionID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "Session history loaded")

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HistoryHandler handles GET /api/chat/history?session_id=
func (h *ChatHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = h.chatService.ActiveSession()
	}
	if sessionID == "" {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": "",
			"messages":   []interface{}{},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   h.sessionService.Messages(sessionID),
	})
}

// StateHandler handles GET /api/chat/state
func (h *ChatHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state":                h.chatService.State(),
		"active_session":       h.chatService.ActiveSession(),
		"last_failed_question": h.chatService.LastFailedQuestion(),
	})
}
