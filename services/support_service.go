package services

import (
	"errors"
	"strings"
	"time"

	"BotAdmin/models"
	"BotAdmin/storage"
)

var (
	ErrChatNotFound  = errors.New("support chat not found")
	ErrChatClosed    = errors.New("support chat is closed")
	ErrInvalidStatus = errors.New("invalid support chat status")
	ErrAgentNotFound = errors.New("support agent not found")
)

// SupportService owns the support conversation lifecycle:
// pending -> active -> closed, with closed terminal. It is the only path for
// posting support messages, so closed-chat immutability is enforced here for
// both the REST and websocket transports.
type SupportService struct {
	store storage.Store
}

func NewSupportService(store storage.Store) *SupportService {
	return &SupportService{store: store}
}

func validStatus(status string) bool {
	switch status {
	case models.SupportChatPending, models.SupportChatActive, models.SupportChatClosed:
		return true
	}
	return false
}

// UpdateStatus applies an explicit transition request. Transitions out of
// closed are rejected; closing sets the resolved timestamp.
func (s *SupportService) UpdateStatus(chatID uint, status string) (*models.SupportChat, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	chat, err := s.store.GetSupportChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.Status == models.SupportChatClosed {
		return nil, ErrChatClosed
	}

	now := time.Now()
	chat.Status = status
	chat.UpdatedAt = now
	if status == models.SupportChatClosed {
		chat.ResolvedAt = &now
	}
	if err := s.store.SaveSupportChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// AssignAgent hands an unresolved chat to an agent.
func (s *SupportService) AssignAgent(chatID uint, agentID uint) (*models.SupportChat, error) {
	chat, err := s.store.GetSupportChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.Status == models.SupportChatClosed {
		return nil, ErrChatClosed
	}
	if _, err := s.store.GetSupportAgent(agentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	chat.AgentID = &agentID
	chat.UpdatedAt = time.Now()
	if err := s.store.SaveSupportChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// PostMessage appends one turn to a support chat. Writes to closed chats are
// rejected as a state conflict.
func (s *SupportService) PostMessage(chatID uint, senderID *uint, content string) (*models.SupportMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.store.GetSupportChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.Status == models.SupportChatClosed {
		return nil, ErrChatClosed
	}

	message := &models.SupportMessage{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.store.CreateSupportMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns the chat's history in order. When markRead is set the
// whole chat is marked read (an agent opened it).
func (s *SupportService) ListMessages(chatID uint, markRead bool) ([]models.SupportMessage, error) {
	if _, err := s.store.GetSupportChat(chatID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	messages, err := s.store.GetSupportMessagesByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if markRead {
		if err := s.store.MarkSupportMessagesRead(chatID); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// ListChatsByAgent returns the agent's inbox, newest activity first, with
// client and session info attached.
func (s *SupportService) ListChatsByAgent(agentID uint) ([]models.SupportChatWithInfo, error) {
	chats, err := s.store.GetSupportChatsByAgentID(agentID)
	if err != nil {
		return nil, err
	}
	return s.attachInfo(chats)
}

func (s *SupportService) ListChatsByClient(clientID uint) ([]models.SupportChatWithInfo, error) {
	chats, err := s.store.GetSupportChatsByClientID(clientID)
	if err != nil {
		return nil, err
	}
	return s.attachInfo(chats)
}

func (s *SupportService) attachInfo(chats []models.SupportChat) ([]models.SupportChatWithInfo, error) {
	result := make([]models.SupportChatWithInfo, 0, len(chats))
	for _, chat := range chats {
		info := models.SupportChatWithInfo{SupportChat: chat}
		if client, err := s.store.GetClientByID(chat.ClientID); err == nil {
			info.Client = client
		}
		if session, err := s.store.GetChatSession(chat.SessionID); err == nil {
			info.Session = session
		}
		result = append(result, info)
	}
	return result, nil
}

// GetChatWithMessages loads one chat plus its history for the agent console.
func (s *SupportService) GetChatWithMessages(chatID uint) (*models.SupportChatWithInfo, []models.SupportMessage, error) {
	chat, err := s.store.GetSupportChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrChatNotFound
		}
		return nil, nil, err
	}

	info := &models.SupportChatWithInfo{SupportChat: *chat}
	if client, err := s.store.GetClientByID(chat.ClientID); err == nil {
		info.Client = client
	}
	if session, err := s.store.GetChatSession(chat.SessionID); err == nil {
		info.Session = session
	}

	messages, err := s.store.GetSupportMessagesByChatID(chatID)
	if err != nil {
		return nil, nil, err
	}
	return info, messages, nil
}

// CreateChat is the manual escalation path (an operator opening a support
// conversation directly).
func (s *SupportService) CreateChat(clientID, sessionID uint, agentID *uint) (*models.SupportChat, error) {
	chat := &models.SupportChat{
		ClientID:  clientID,
		SessionID: sessionID,
		AgentID:   agentID,
		Status:    models.SupportChatPending,
	}
	if err := s.store.CreateSupportChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ListAgents returns all agents with their user records joined in.
func (s *SupportService) ListAgents() ([]models.SupportAgentWithUser, error) {
	agents, err := s.store.GetSupportAgents()
	if err != nil {
		return nil, err
	}
	result := make([]models.SupportAgentWithUser, 0, len(agents))
	for _, agent := range agents {
		entry := models.SupportAgentWithUser{SupportAgent: agent}
		if user, err := s.store.GetUser(agent.UserID); err == nil {
			entry.User = user
		}
		result = append(result, entry)
	}
	return result, nil
}

// SetAgentAvailability flips the single gate that controls whether new
// escalations can be assigned to the agent.
func (s *SupportService) SetAgentAvailability(agentID uint, available bool) (*models.SupportAgent, error) {
	agent, err := s.store.GetSupportAgent(agentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	agent.IsAvailable = available
	agent.LastActive = time.Now()
	if err := s.store.SaveSupportAgent(agent); err != nil {
		return nil, err
	}
	return agent, nil
}
