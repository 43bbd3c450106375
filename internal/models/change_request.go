package models

import (
	"time"

	"gorm.io/datatypes"
)

type TargetKind string
type RequestType string
type RequestStatus string

const (
	KindVehicle        TargetKind = "vehicle"
	KindVendor         TargetKind = "vendor"
	KindVendorBank     TargetKind = "vendor_bank"
	KindVendorDeletion TargetKind = "vendor_deletion"

	RequestCreate   RequestType = "create"
	RequestUpdate   RequestType = "update"
	RequestDeletion RequestType = "deletion"

	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ChangeRequest — a proposed mutation waiting for an approver's decision.
// Status moves out of pending exactly once and the row is never deleted;
// decided requests stay behind as the approval trail.
type ChangeRequest struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TargetKind  TargetKind  `gorm:"type:varchar(20);not null;index"`
	RequestType RequestType `gorm:"type:varchar(20);not null"`

	// nil for creates where the entity does not exist yet (vehicles);
	// vendor creates point at their placeholder row.
	TargetEntityID *uint `gorm:"index"`

	CurrentData  datatypes.JSON // pre-change snapshot, nil for creates
	ProposedData datatypes.JSON `gorm:"not null"`

	RequestedBy uint   `gorm:"not null;index"`
	Requester   User   `gorm:"foreignKey:RequestedBy"`
	Reason      string `gorm:"type:text"`

	Status          RequestStatus `gorm:"type:varchar(20);not null;index;default:'pending'"`
	ApprovedBy      *uint
	Approver        *User `gorm:"foreignKey:ApprovedBy"`
	ApprovedAt      *time.Time
	RejectionReason string `gorm:"type:text"`
}
