package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint
	User   User

	Entity    string `gorm:"size:50;not null"` // "vehicle", "vendor", "change_request"
	EntityID  uint
	Action    string `gorm:"size:50;not null"` // "create", "approve", "reject", "delete"
	Details   string `gorm:"type:text"`
	IPAddress string `gorm:"size:45"`
}
