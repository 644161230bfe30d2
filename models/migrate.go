package models

import "gorm.io/gorm"

func AutoMigrateAll(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Client{},
		&ChatSession{},
		&ChatMessage{},
		&CustomResponse{},
		&SupportAgent{},
		&SupportChat{},
		&SupportMessage{},
		&Statistic{},
	)
	if err != nil {
		return err
	}
	return nil
}
