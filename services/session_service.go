package services

import (
	"errors"
	"fmt"
	"time"

	"BotAdmin/models"
	"BotAdmin/storage"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrClientNotFound  = errors.New("client not found")
)

// Session expiry policies offered by the QR generator.
const (
	SessionTimeoutNever = "never"
	SessionTimeout24h   = "24h"
	SessionTimeout7d    = "7d"
)

// SessionService owns the lifecycle of anonymous end-user chat sessions. The
// session token is the widget's only credential; possession resumes the
// conversation.
type SessionService struct {
	store   storage.Store
	baseURL string
}

func NewSessionService(store storage.Store, baseURL string) *SessionService {
	return &SessionService{store: store, baseURL: baseURL}
}

// CreateSession issues a fresh unique token and persists the session. The
// client's user counter advances exactly once per created session (done by
// the store alongside the insert).
func (s *SessionService) CreateSession(clientID uint, phoneNumber string, timeout string) (*models.ChatSession, error) {
	if _, err := s.store.GetClientByID(clientID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	session := &models.ChatSession{
		ClientID:     clientID,
		SessionToken: uuid.New().String(),
		PhoneNumber:  phoneNumber,
		ExpiresAt:    expiryFor(timeout),
	}
	if err := s.store.CreateChatSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// expiryFor maps a timeout policy to an absolute expiry. Unknown values mean
// no expiry, same as "never".
func expiryFor(timeout string) *time.Time {
	var d time.Duration
	switch timeout {
	case SessionTimeout24h:
		d = 24 * time.Hour
	case SessionTimeout7d:
		d = 7 * 24 * time.Hour
	default:
		return nil
	}
	t := time.Now().Add(d)
	return &t
}

// GetSessionByToken resolves a widget's token. ErrSessionNotFound is a normal
// condition: the widget recovers by requesting a new session.
func (s *SessionService) GetSessionByToken(token string) (*models.ChatSession, error) {
	session, err := s.store.GetChatSessionByToken(token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// RecordActivity bumps the session's last-active timestamp.
func (s *SessionService) RecordActivity(sessionID uint) error {
	return s.store.TouchChatSession(sessionID)
}

func (s *SessionService) GetMessages(sessionID uint) ([]models.ChatMessage, error) {
	return s.store.GetChatMessagesBySessionID(sessionID)
}

// ListSessionsByClient returns a client's sessions, most recently active
// first.
func (s *SessionService) ListSessionsByClient(clientID uint) ([]models.ChatSession, error) {
	return s.store.GetChatSessionsByClientID(clientID)
}

// PostBotMessage stores a bot-side turn (welcome text, canned reply). The
// routing pipeline never calls this; emitting replies is the transport
// layer's job.
func (s *SessionService) PostBotMessage(sessionID uint, content string) (*models.ChatMessage, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	message := &models.ChatMessage{
		SessionID: sessionID,
		Content:   content,
	}
	if err := s.store.CreateChatMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

type ProvisionedSession struct {
	Session *models.ChatSession `json:"session"`
	QRURL   string              `json:"qr_url"`
}

// ProvisionQR creates a session for a shareable QR code and returns the URL
// that embeds its token.
func (s *SessionService) ProvisionQR(clientID uint, timeout string, phoneNumber string) (*ProvisionedSession, error) {
	session, err := s.CreateSession(clientID, phoneNumber, timeout)
	if err != nil {
		return nil, err
	}
	return &ProvisionedSession{
		Session: session,
		QRURL:   fmt.Sprintf("%s/chat/%s", s.baseURL, session.SessionToken),
	}, nil
}
