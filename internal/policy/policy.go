// Package policy is the single place that knows what each role may do.
// Pure lookups, no database access.
package policy

import (
	"errors"

	"fleet-admin/internal/models"
)

var ErrUnauthorizedRole = errors.New("role is not authorized for this operation")

var roleRanks = map[models.UserRole]int{
	models.RoleStaff:        1,
	models.RoleL2Supervisor: 2,
	models.RoleL1Supervisor: 3,
	models.RoleManager1:     4,
	models.RoleManager2:     4,
	models.RoleAdmin:        5,
	models.RoleSuperadmin:   6,
}

// Rank orders roles by privilege. Unknown roles are rejected outright.
func Rank(role models.UserRole) (int, error) {
	rank, ok := roleRanks[role]
	if !ok {
		return 0, ErrUnauthorizedRole
	}
	return rank, nil
}

func Known(role models.UserRole) bool {
	_, ok := roleRanks[role]
	return ok
}

// CanApprove — may decide pending change requests.
func CanApprove(role models.UserRole) bool {
	switch role {
	case models.RoleManager1, models.RoleManager2, models.RoleAdmin, models.RoleSuperadmin:
		return true
	}
	return false
}

// CanDeleteDirectly — may delete entities without raising a request.
func CanDeleteDirectly(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleSuperadmin
}

// RequiresApprovalForMutation — below the approver threshold but still
// allowed to propose at least one kind of mutation.
func RequiresApprovalForMutation(role models.UserRole) bool {
	if CanApprove(role) {
		return false
	}
	for kind, ops := range proposalMatrix {
		for op := range ops {
			if CanPropose(role, kind, op) {
				return true
			}
		}
	}
	return false
}

// proposalMatrix lists which non-approver roles may raise which request.
// Managers appear only under vendor_deletion: they can approve everything
// but may not delete vendors themselves, so their deletions queue up for
// an admin the same way a supervisor's vehicle edit queues up for them.
var proposalMatrix = map[models.TargetKind]map[models.RequestType][]models.UserRole{
	models.KindVehicle: {
		models.RequestCreate: {models.RoleL2Supervisor, models.RoleL1Supervisor},
		models.RequestUpdate: {models.RoleL2Supervisor, models.RoleL1Supervisor},
	},
	models.KindVendor: {
		models.RequestCreate: {models.RoleL2Supervisor, models.RoleL1Supervisor},
		models.RequestUpdate: {models.RoleL2Supervisor, models.RoleL1Supervisor},
	},
	models.KindVendorBank: {
		models.RequestUpdate: {models.RoleL2Supervisor, models.RoleL1Supervisor},
	},
	models.KindVendorDeletion: {
		models.RequestDeletion: {models.RoleL1Supervisor, models.RoleManager1, models.RoleManager2},
	},
}

func CanPropose(role models.UserRole, kind models.TargetKind, op models.RequestType) bool {
	ops, ok := proposalMatrix[kind]
	if !ok {
		return false
	}
	for _, r := range ops[op] {
		if r == role {
			return true
		}
	}
	return false
}

// ApproverRoles — recipients of the "approval required" fan-out.
func ApproverRoles() []models.UserRole {
	return []models.UserRole{
		models.RoleManager1,
		models.RoleManager2,
		models.RoleAdmin,
		models.RoleSuperadmin,
	}
}
