package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"BotAdmin/models"
	"BotAdmin/redis"
	"BotAdmin/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSEvent is one frame on the support channel, in either direction.
// Field names match the widget/console wire protocol.
type WSEvent struct {
	Type    string                 `json:"type"`
	ChatID  uint                   `json:"chatId,omitempty"`
	UserID  *uint                  `json:"userId,omitempty"`
	Content string                 `json:"content,omitempty"`
	Message *models.SupportMessage `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// SupportClient is one websocket connection. ChatID is the conversation the
// connection has joined; zero until the first join.
type SupportClient struct {
	ID       string
	ChatID   uint
	SenderID *uint // nil for the end-user side
	Conn     *websocket.Conn
	Send     chan *WSEvent
	ctx      context.Context
	cancel   context.CancelFunc
}

// SupportHub is the fan-out registry: connection id -> joined conversation.
// A connection is joined to at most one chat; rejoining overwrites the prior
// association. Delivery is best effort, with no buffering for absent
// participants; clients re-fetch history on reconnect.
type SupportHub struct {
	mu       sync.RWMutex
	clients  map[string]*SupportClient
	presence *redis.Presence // nil when redis is disabled
}

func NewSupportHub(presence *redis.Presence) *SupportHub {
	return &SupportHub{
		clients:  make(map[string]*SupportClient),
		presence: presence,
	}
}

func (h *SupportHub) Register(client *SupportClient) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
}

// Unregister drops the connection from the registry. Send is never closed: a
// Broadcast that snapshotted this client before removal may still write to
// it, and the buffered channel simply goes unread once the write pump stops.
func (h *SupportHub) Unregister(client *SupportClient) {
	h.mu.Lock()
	prev, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	prev.cancel()
	if prev.ChatID != 0 {
		h.removePresence(prev.ChatID, prev.ID)
	}
}

// Join associates the connection with a conversation, replacing any prior
// association.
func (h *SupportHub) Join(client *SupportClient, chatID uint, senderID *uint) {
	h.mu.Lock()
	prevChatID := client.ChatID
	client.ChatID = chatID
	client.SenderID = senderID
	h.mu.Unlock()

	if prevChatID != 0 && prevChatID != chatID {
		h.removePresence(prevChatID, client.ID)
	}
	h.addPresence(chatID, client)
}

// Broadcast delivers the event to every connection currently joined to the
// chat, at most once each. A client with a full send buffer is dropped.
func (h *SupportHub) Broadcast(chatID uint, event *WSEvent) {
	h.mu.RLock()
	targets := make([]*SupportClient, 0, len(h.clients))
	for _, client := range h.clients {
		if client.ChatID == chatID {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- event:
		default:
			log.Printf("Client %s send buffer full, disconnecting", client.ID)
			h.Unregister(client)
		}
	}
}

func (h *SupportHub) addPresence(chatID uint, client *SupportClient) {
	if h.presence == nil {
		return
	}
	participant := redis.Participant{
		ConnID:   client.ID,
		SenderID: client.SenderID,
		JoinedAt: time.Now().Unix(),
	}
	if err := h.presence.Add(context.Background(), chatID, participant); err != nil {
		log.Printf("Failed to record presence for chat %d: %v", chatID, err)
	}
}

func (h *SupportHub) removePresence(chatID uint, connID string) {
	if h.presence == nil {
		return
	}
	if err := h.presence.Remove(context.Background(), chatID, connID); err != nil {
		log.Printf("Failed to clear presence for chat %d: %v", chatID, err)
	}
}

type SupportWebSocketHandler struct {
	hub            *SupportHub
	supportService *services.SupportService
}

func NewSupportWebSocketHandler(hub *SupportHub, supportService *services.SupportService) *SupportWebSocketHandler {
	return &SupportWebSocketHandler{
		hub:            hub,
		supportService: supportService,
	}
}

func (h *SupportWebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &SupportClient{
		ID:     uuid.New().String(),
		Conn:   ws,
		Send:   make(chan *WSEvent, 256),
		ctx:    ctx,
		cancel: cancel,
	}

	h.hub.Register(client)

	go h.writePump(client)
	h.readPump(client)

	return nil
}

func (h *SupportWebSocketHandler) readPump(client *SupportClient) {
	defer func() {
		client.cancel()
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var event WSEvent
		err := client.Conn.ReadJSON(&event)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleEvent(client, &event)
	}
}

func (h *SupportWebSocketHandler) writePump(client *SupportClient) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case <-client.ctx.Done():
			return

		case event := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteJSON(event); err != nil {
				log.Printf("WriteJSON error: %v", err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SupportWebSocketHandler) handleEvent(client *SupportClient, event *WSEvent) {
	switch event.Type {
	case "join_support_chat":
		h.handleJoin(client, event)
	case "support_message":
		h.handlePublish(client, event)
	}
}

func (h *SupportWebSocketHandler) handleJoin(client *SupportClient, event *WSEvent) {
	if event.ChatID == 0 {
		h.sendError(client, "chatId is required")
		return
	}
	h.hub.Join(client, event.ChatID, event.UserID)
	log.Printf("Connection %s joined support chat %d", client.ID, event.ChatID)
}

// handlePublish persists the message through the state machine (closed chats
// reject it) and only then fans it out to the joined connections.
func (h *SupportWebSocketHandler) handlePublish(client *SupportClient, event *WSEvent) {
	chatID := event.ChatID
	if chatID == 0 {
		chatID = client.ChatID
	}
	if chatID == 0 {
		h.sendError(client, "chatId is required")
		return
	}

	senderID := event.UserID
	if senderID == nil {
		senderID = client.SenderID
	}

	message, err := h.supportService.PostMessage(chatID, senderID, event.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			h.sendError(client, "content is required")
		case errors.Is(err, services.ErrChatNotFound):
			h.sendError(client, "support chat not found")
		case errors.Is(err, services.ErrChatClosed):
			h.sendError(client, "support chat is closed")
		default:
			log.Printf("Failed to store support message for chat %d: %v", chatID, err)
			h.sendError(client, "failed to store message")
		}
		return
	}

	h.hub.Broadcast(chatID, &WSEvent{
		Type:    "support_message",
		Message: message,
	})
}

func (h *SupportWebSocketHandler) sendError(client *SupportClient, message string) {
	select {
	case client.Send <- &WSEvent{Type: "error", Error: message}:
	default:
	}
}

// GetParticipants exposes the hub's presence view over REST so the agent
// console can show who is currently connected to a chat.
func (h *SupportWebSocketHandler) GetParticipants(c echo.Context) error {
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat ID"})
	}

	if h.hub.presence == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"chat_id":      chatID,
			"count":        0,
			"participants": []redis.Participant{},
		})
	}

	participants, err := h.hub.presence.List(c.Request().Context(), uint(chatID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch participants"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"chat_id":      chatID,
		"count":        len(participants),
		"participants": participants,
	})
}
