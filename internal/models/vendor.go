package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor — an external transporter/service provider. Deletion is always a
// soft delete (gorm.DeletedAt); dependents are cleaned up by the approval
// engine's vendor-deletion mutator.
type Vendor struct {
	gorm.Model
	Name          string `gorm:"size:255;not null"`
	GSTIN         string `gorm:"size:15"`
	ContactPerson string `gorm:"size:255"`
	Phone         string `gorm:"size:50"`
	Email         string `gorm:"size:255"`
	Address       string `gorm:"type:text"`
	City          string `gorm:"size:100"`

	BankName      string `gorm:"size:255"`
	AccountNumber string `gorm:"size:30"`
	BranchName    string `gorm:"size:255"`
	IFSCCode      string `gorm:"size:11"`

	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null"`

	Contacts  []VendorContact
	Services  []VendorService
	Documents []VendorDocument
	Vehicles  []VendorVehicle
}

// VendorContact is removed for good when the vendor goes, so no DeletedAt.
type VendorContact struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	VendorID uint `gorm:"not null;index"`

	Name        string `gorm:"size:255;not null"`
	Designation string `gorm:"size:100"`
	Phone       string `gorm:"size:50"`
	Email       string `gorm:"size:255"`
}

// VendorService — same hard-delete semantics as VendorContact.
type VendorService struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	VendorID uint `gorm:"not null;index"`

	ServiceName string `gorm:"size:255;not null"`
	RatePerTrip float64
}

type VendorDocument struct {
	gorm.Model
	VendorID uint `gorm:"not null;index"`

	DocType  string `gorm:"size:50"` // pan, gst, agreement etc.
	FilePath string `gorm:"size:500"`
}

// VendorVehicle — a vehicle the vendor runs for us (not part of our own fleet).
type VendorVehicle struct {
	gorm.Model
	VendorID uint `gorm:"not null;index"`

	VehicleNumber string `gorm:"size:20;not null"`
	VehicleType   string `gorm:"size:50"`
}
