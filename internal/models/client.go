package models

import "gorm.io/gorm"

// Client — a company the fleet hauls for. Plain CRUD, no approval step.
type Client struct {
	gorm.Model
	Name         string `gorm:"size:255;not null"`
	GSTIN        string `gorm:"size:15"`
	ContactName  string `gorm:"size:255"`
	ContactPhone string `gorm:"size:50"`
	ContactEmail string `gorm:"size:255"`
	Address      string `gorm:"type:text"`
	City         string `gorm:"size:100"`
	Notes        string `gorm:"type:text"`
}
