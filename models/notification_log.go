package models

import "time"

type NotificationLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Channel   string    `gorm:"size:16"` // "email"
	Subject   string
	Status    string    `gorm:"size:16"` // "sent" | "failed"
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time
}
