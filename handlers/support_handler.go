package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"BotAdmin/models"
	"BotAdmin/services"

	"github.com/labstack/echo/v4"
)

type SupportHandler struct {
	supportService *services.SupportService
}

func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// GetChats lists support chats for either an agent's inbox or a client's
// history; one of the two filters is required.
func (h *SupportHandler) GetChats(c echo.Context) error {
	if agentParam := c.QueryParam("agentId"); agentParam != "" {
		agentID, err := strconv.ParseUint(agentParam, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
		}
		chats, err := h.supportService.ListChatsByAgent(uint(agentID))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch support chats"})
		}
		return c.JSON(http.StatusOK, chats)
	}

	if clientParam := c.QueryParam("clientId"); clientParam != "" {
		clientID, err := strconv.ParseUint(clientParam, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
		}
		chats, err := h.supportService.ListChatsByClient(uint(clientID))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch support chats"})
		}
		return c.JSON(http.StatusOK, chats)
	}

	return c.JSON(http.StatusBadRequest, map[string]string{"error": "either agentId or clientId is required"})
}

func (h *SupportHandler) GetChat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat ID"})
	}

	chat, messages, err := h.supportService.GetChatWithMessages(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "support chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch support chat"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chat":     chat,
		"messages": messages,
	})
}

func (h *SupportHandler) CreateChat(c echo.Context) error {
	var req struct {
		ClientID  uint  `json:"client_id"`
		SessionID uint  `json:"session_id"`
		AgentID   *uint `json:"agent_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.ClientID == 0 || req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_id and session_id are required"})
	}

	chat, err := h.supportService.CreateChat(req.ClientID, req.SessionID, req.AgentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create support chat"})
	}
	return c.JSON(http.StatusCreated, chat)
}

// UpdateChat applies a status transition or an agent assignment.
func (h *SupportHandler) UpdateChat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat ID"})
	}

	var req struct {
		Status  string `json:"status"`
		AgentID *uint  `json:"agent_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	var chat *models.SupportChat
	if req.AgentID != nil {
		chat, err = h.supportService.AssignAgent(uint(id), *req.AgentID)
		if err != nil {
			return h.mapChatError(c, err)
		}
	}
	if req.Status != "" {
		chat, err = h.supportService.UpdateStatus(uint(id), req.Status)
		if err != nil {
			return h.mapChatError(c, err)
		}
	}
	if chat == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status or agent_id is required"})
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *SupportHandler) mapChatError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "support chat not found"})
	case errors.Is(err, services.ErrChatClosed):
		return c.JSON(http.StatusConflict, map[string]string{"error": "support chat is closed"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status"})
	case errors.Is(err, services.ErrAgentNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "support agent not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update support chat"})
	}
}

// GetMessages returns the chat history; passing userId marks it read (an
// agent opened the conversation).
func (h *SupportHandler) GetMessages(c echo.Context) error {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat ID"})
	}

	markRead := c.QueryParam("userId") != ""
	messages, err := h.supportService.ListMessages(uint(chatID), markRead)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "support chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch support messages"})
	}
	return c.JSON(http.StatusOK, messages)
}

func (h *SupportHandler) CreateMessage(c echo.Context) error {
	var req struct {
		ChatID   uint   `json:"chat_id"`
		SenderID *uint  `json:"sender_id"`
		Content  string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.ChatID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "chat_id is required"})
	}

	message, err := h.supportService.PostMessage(req.ChatID, req.SenderID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
		case errors.Is(err, services.ErrChatNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "support chat not found"})
		case errors.Is(err, services.ErrChatClosed):
			return c.JSON(http.StatusConflict, map[string]string{"error": "support chat is closed"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create support message"})
		}
	}
	return c.JSON(http.StatusCreated, message)
}
