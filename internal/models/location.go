package models

import "gorm.io/gorm"

// Location — a named pickup/drop point used when planning trips.
type Location struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"`
	City     string `gorm:"size:100"`
	State    string `gorm:"size:100"`
	Pincode  string `gorm:"size:10"`
	Landmark string `gorm:"size:255"`
}
