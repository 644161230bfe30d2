package models

import "time"

// CustomResponse is a client-defined keyword rule: when the keyword appears
// in a user message (case-insensitive substring), the stored reply answers it.
type CustomResponse struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ClientID  uint      `json:"client_id" gorm:"index"`
	Keyword   string    `json:"keyword"`
	Response  string    `json:"response" gorm:"type:text"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
