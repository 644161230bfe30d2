package models

import "time"

// Support chat lifecycle. Closed is terminal.
const (
	SupportChatPending = "pending"
	SupportChatActive  = "active"
	SupportChatClosed  = "closed"
)

type SupportAgent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	// no gorm default: with one, a false value is omitted from the INSERT
	// and comes back true
	IsAvailable bool      `json:"is_available"`
	LastActive  time.Time `json:"last_active"`
}

type SupportAgentWithUser struct {
	SupportAgent
	User *User `json:"user,omitempty"`
}

// SupportChat is one escalation episode: a human-agent conversation tied to
// the ChatSession it originated from. AgentID stays nil while the chat waits
// in the unassigned queue.
type SupportChat struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ClientID   uint       `json:"client_id" gorm:"index"`
	SessionID  uint       `json:"session_id" gorm:"index"`
	AgentID    *uint      `json:"agent_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

type SupportChatWithInfo struct {
	SupportChat
	Client  *Client      `json:"client,omitempty"`
	Session *ChatSession `json:"session,omitempty"`
}

// SupportMessage is one turn inside a SupportChat. SenderID nil means the
// end-user (client side), non-nil is the user id of the agent who wrote it.
type SupportMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    uint      `json:"chat_id" gorm:"index"`
	SenderID  *uint     `json:"sender_id"`
	Content   string    `json:"content" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	Timestamp time.Time `json:"timestamp"`
}
