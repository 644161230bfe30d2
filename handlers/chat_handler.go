package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"BotAdmin/services"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	sessionService    *services.SessionService
	escalationService *services.EscalationService
}

func NewChatHandler(sessionService *services.SessionService, escalationService *services.EscalationService) *ChatHandler {
	return &ChatHandler{
		sessionService:    sessionService,
		escalationService: escalationService,
	}
}

// CreateSession provisions a session for a widget load.
func (h *ChatHandler) CreateSession(c echo.Context) error {
	var req struct {
		ClientID    uint   `json:"client_id"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_id is required"})
	}

	session, err := h.sessionService.CreateSession(req.ClientID, req.PhoneNumber, services.SessionTimeoutNever)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat session"})
	}
	return c.JSON(http.StatusCreated, session)
}

// GetSession resumes a session from its token and returns the history the
// widget needs to rebuild its view.
func (h *ChatHandler) GetSession(c echo.Context) error {
	token := c.Param("token")

	session, err := h.sessionService.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			// normal condition: the widget recovers by creating a new session
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch chat session"})
	}

	if err := h.sessionService.RecordActivity(session.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch chat session"})
	}

	messages, err := h.sessionService.GetMessages(session.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch chat session"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":  session,
		"messages": messages,
	})
}

// CreateMessage is the widget's message submission. User messages run the
// full routing pipeline; a matched canned reply is persisted as a bot turn
// and returned alongside the stored message. Bot-side turns (the widget
// echoing a welcome message) are stored as-is.
func (h *ChatHandler) CreateMessage(c echo.Context) error {
	var req struct {
		SessionID     uint   `json:"session_id"`
		Content       string `json:"content"`
		IsUserMessage bool   `json:"is_user_message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	if !req.IsUserMessage {
		message, err := h.sessionService.PostBotMessage(req.SessionID, req.Content)
		if err != nil {
			if errors.Is(err, services.ErrEmptyMessage) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat message"})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"message": message})
	}

	result, err := h.escalationService.HandleInboundUserMessage(req.SessionID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat message"})
	}

	response := map[string]interface{}{
		"message":   result.Message,
		"escalated": result.Escalated,
	}
	if result.Chat != nil {
		response["chat"] = result.Chat
	}
	if result.Reply != "" {
		reply, err := h.sessionService.PostBotMessage(req.SessionID, result.Reply)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat message"})
		}
		response["reply"] = reply
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	sessionID, err := strconv.ParseUint(c.Param("sessionId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
	}

	messages, err := h.sessionService.GetMessages(uint(sessionID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch chat messages"})
	}
	return c.JSON(http.StatusOK, messages)
}

// GetClientSessions lists a client's sessions for the admin console.
func (h *ChatHandler) GetClientSessions(c echo.Context) error {
	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
	}

	sessions, err := h.sessionService.ListSessionsByClient(uint(clientID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch chat sessions"})
	}
	return c.JSON(http.StatusOK, sessions)
}

// GenerateQR provisions a session with an expiry policy and returns the
// shareable URL for the QR code.
func (h *ChatHandler) GenerateQR(c echo.Context) error {
	var req struct {
		ClientID       uint   `json:"client_id"`
		SessionTimeout string `json:"session_timeout"` // never, 24h, 7d
		PhoneNumber    string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_id is required"})
	}

	provisioned, err := h.sessionService.ProvisionQR(req.ClientID, req.SessionTimeout, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to generate QR code session"})
	}
	return c.JSON(http.StatusCreated, provisioned)
}
