package models

import "time"

// ChatSession is one anonymous end-user conversation with a client's widget.
// The token is the only credential the widget holds; it never changes once
// assigned.
type ChatSession struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ClientID     uint       `json:"client_id" gorm:"index"`
	SessionToken string     `json:"session_token" gorm:"uniqueIndex"`
	PhoneNumber  string     `json:"phone_number"`
	ExpiresAt    *time.Time `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActive   time.Time  `json:"last_active"`
}

// ChatMessage is one turn in a ChatSession. NeedsSupport marks the message
// that triggered an escalation.
type ChatMessage struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SessionID     uint      `json:"session_id" gorm:"index"`
	Content       string    `json:"content" gorm:"type:text"`
	IsUserMessage bool      `json:"is_user_message" gorm:"default:false"`
	NeedsSupport  bool      `json:"needs_support" gorm:"default:false"`
	Timestamp     time.Time `json:"timestamp"`
}
