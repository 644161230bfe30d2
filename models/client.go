package models

import "time"

// Client is one tenant of the platform: a business whose chat widget we host.
type Client struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Logo           string    `json:"logo"`
	IsActive       bool      `json:"is_active"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	ChatTitle      string    `json:"chat_title"`
	WelcomeMessage string    `json:"welcome_message"`
	UserID         uint      `json:"user_id" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ClientWithStats struct {
	Client
	MessageCount        int `json:"message_count"`
	UserCount           int `json:"user_count"`
	SupportRequestCount int `json:"support_request_count"`
}

type DashboardStats struct {
	TotalBots       int `json:"total_bots"`
	MessagesToday   int `json:"messages_today"`
	ActiveUsers     int `json:"active_users"`
	SupportRequests int `json:"support_requests"`
}
