package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"BotAdmin/models"
	"BotAdmin/storage"
)

var ErrEmptyMessage = errors.New("message content is required")

// EscalationEvent is published to the event stream whenever an unmatched
// message is routed into a support chat.
type EscalationEvent struct {
	ChatID    uint      `json:"chat_id"`
	ClientID  uint      `json:"client_id"`
	SessionID uint      `json:"session_id"`
	AgentID   *uint     `json:"agent_id"`
	MessageID uint      `json:"message_id"`
	Content   string    `json:"content"`
	Reused    bool      `json:"reused"` // appended to an existing open chat
	At        time.Time `json:"at"`
}

// EventPublisher pushes escalation events to downstream consumers
// (notification pipelines, analytics). Delivery is best effort.
type EventPublisher interface {
	PublishEscalation(event *EscalationEvent) error
}

// EscalationResult is what the transport layer gets back for one inbound
// end-user message.
type EscalationResult struct {
	Message   *models.ChatMessage `json:"message"`
	Escalated bool                `json:"escalated"`
	Chat      *models.SupportChat `json:"chat,omitempty"`
	// Reply carries the canned response text on a keyword match. The caller
	// decides how to emit it; the coordinator only routes.
	Reply string `json:"reply,omitempty"`
}

// EscalationService is the routing pipeline for inbound end-user messages:
// match against keyword rules, and when nothing matches, find or create the
// session's support chat and mirror the message into it.
type EscalationService struct {
	store   storage.Store
	matcher *MatcherService
	events  EventPublisher // nil when no event stream is configured
}

func NewEscalationService(store storage.Store, matcher *MatcherService, events EventPublisher) *EscalationService {
	return &EscalationService{store: store, matcher: matcher, events: events}
}

// HandleInboundUserMessage runs the full pipeline for one user message. All
// writes happen in a single transaction: either the message and every
// escalation side effect land together, or none of them do.
func (s *EscalationService) HandleInboundUserMessage(sessionID uint, content string) (*EscalationResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.store.GetChatSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Degraded path: the session row is gone but the message is still
			// worth keeping. Store it as-is, no escalation.
			message := &models.ChatMessage{
				SessionID:     sessionID,
				Content:       content,
				IsUserMessage: true,
			}
			if err := s.store.CreateChatMessage(message); err != nil {
				return nil, err
			}
			return &EscalationResult{Message: message}, nil
		}
		return nil, err
	}

	// Matching is a pure read; only the writes below need the transaction.
	match, err := s.matcher.Match(session.ClientID, content)
	if err != nil {
		return nil, err
	}

	result := &EscalationResult{}
	var event *EscalationEvent

	err = s.store.Transaction(func(tx storage.Store) error {
		message := &models.ChatMessage{
			SessionID:     session.ID,
			Content:       content,
			IsUserMessage: true,
			NeedsSupport:  !match.Matched,
		}
		if err := tx.CreateChatMessage(message); err != nil {
			return err
		}
		result.Message = message

		if match.Matched {
			result.Reply = match.Reply
			return nil
		}

		chat, reused, err := s.findOrCreateChat(tx, session)
		if err != nil {
			return err
		}

		// Mirror the user's message into the support conversation. SenderID
		// nil marks it as coming from the end-user side.
		mirror := &models.SupportMessage{
			ChatID:  chat.ID,
			Content: content,
		}
		if err := tx.CreateSupportMessage(mirror); err != nil {
			return err
		}

		result.Escalated = true
		result.Chat = chat
		event = &EscalationEvent{
			ChatID:    chat.ID,
			ClientID:  chat.ClientID,
			SessionID: session.ID,
			AgentID:   chat.AgentID,
			MessageID: message.ID,
			Content:   content,
			Reused:    reused,
			At:        time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil && s.events != nil {
		if err := s.events.PublishEscalation(event); err != nil {
			log.Printf("Failed to publish escalation event for chat %d: %v", event.ChatID, err)
		}
	}

	return result, nil
}

// findOrCreateChat reuses the session's open support chat when one exists so
// repeated unmatched messages land in one conversation. A new chat gets the
// first available agent, or stays unassigned (agent nil, status pending) when
// nobody is free.
func (s *EscalationService) findOrCreateChat(tx storage.Store, session *models.ChatSession) (*models.SupportChat, bool, error) {
	chat, err := tx.GetOpenSupportChatBySessionID(session.ID)
	if err == nil {
		return chat, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	chat = &models.SupportChat{
		ClientID:  session.ClientID,
		SessionID: session.ID,
		Status:    models.SupportChatPending,
	}
	agent, err := tx.FirstAvailableAgent()
	if err == nil {
		chat.AgentID = &agent.ID
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	if err := tx.CreateSupportChat(chat); err != nil {
		return nil, false, err
	}
	return chat, false, nil
}
