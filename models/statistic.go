package models

import "time"

// Statistic holds the running per-client counters shown on the dashboard.
// One row per client, created with the client; counters only ever go up.
type Statistic struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	ClientID            uint      `json:"client_id" gorm:"index"`
	MessageCount        int       `json:"message_count" gorm:"default:0"`
	UserCount           int       `json:"user_count" gorm:"default:0"`
	SupportRequestCount int       `json:"support_request_count" gorm:"default:0"`
	Date                time.Time `json:"date"`
}
