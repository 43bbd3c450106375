package models

import "time"

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Notification — append-only inbox entry. Rows are written by the approval
// engine and only ever read afterwards.
type Notification struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"not null;index"`
	User   User

	Title   string           `gorm:"size:255;not null"`
	Message string           `gorm:"type:text"`
	Type    NotificationType `gorm:"type:varchar(20);not null"`

	RelatedTable string `gorm:"size:50"`
	RelatedID    *uint

	IsRead bool `gorm:"default:false"`
}
