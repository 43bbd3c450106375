package models

import "gorm.io/gorm"

type UserRole string
type UserStatus string

const (
	RoleStaff        UserRole = "staff"
	RoleL2Supervisor UserRole = "l2_supervisor"
	RoleL1Supervisor UserRole = "l1_supervisor"
	RoleManager1     UserRole = "manager1"
	RoleManager2     UserRole = "manager2"
	RoleAdmin        UserRole = "admin"
	RoleSuperadmin   UserRole = "superadmin"

	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string     `gorm:"not null"`
	FullName     string     `gorm:"size:255"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}
