package models

import "gorm.io/gorm"

type VehicleStatus string
type ApprovalStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleOnTrip      VehicleStatus = "on_trip"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"

	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Vehicle struct {
	gorm.Model
	VehicleNumber string `gorm:"size:20;uniqueIndex;not null"` // Registration plate, e.g. UP25GT0880
	VehicleType   string `gorm:"size:50"`                      // truck, tempo, trailer etc.
	MakerModel    string `gorm:"size:100"`

	OwnerName  string `gorm:"size:255"`
	OwnerPhone string `gorm:"size:50"`

	DriverName  string `gorm:"size:255"`
	DriverPhone string `gorm:"size:50"`

	CurrentStatus  VehicleStatus  `gorm:"type:varchar(20);not null"`
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null"`

	Financing *VehicleFinancing
}

// Financing terms for a vehicle bought on loan.
type VehicleFinancing struct {
	gorm.Model
	VehicleID uint `gorm:"uniqueIndex;not null"`

	FinancierName string `gorm:"size:255"`
	LoanAmount    float64
	EMIAmount     float64
	EMIDueDay     int // day of month the EMI falls due
}
