package models

import (
	"time"

	"gorm.io/gorm"
)

type Driver struct {
	gorm.Model
	Name  string `gorm:"size:255;not null"`
	Phone string `gorm:"size:50"`

	LicenseNumber string `gorm:"size:50;uniqueIndex"`
	LicenseExpiry *time.Time

	// currently assigned vehicle, if any
	VehicleID *uint
	Vehicle   *Vehicle

	Status string `gorm:"size:20;default:'active'"` // active / inactive
}
