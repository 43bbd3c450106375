package database

import "fleet-admin/internal/models"

// helper for writing the audit trail from handlers; the approval engine
// writes its own entries inside its transaction
func CreateAuditLog(userID uint, entity string, entityID uint, action, details, ip string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
	}
	_ = DB.Create(&record).Error
}
