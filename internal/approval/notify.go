package approval

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"fleet-admin/internal/models"
	"fleet-admin/internal/policy"
)

// Notification sink: append-only inserts riding the engine transaction,
// so a fan-out is all-or-nothing with the change request it announces.

func notifyUser(tx *gorm.DB, now time.Time, userID uint, typ models.NotificationType,
	title, message, relatedTable string, relatedID *uint) error {
	n := models.Notification{
		CreatedAt:    now,
		UserID:       userID,
		Title:        title,
		Message:      message,
		Type:         typ,
		RelatedTable: relatedTable,
		RelatedID:    relatedID,
	}
	return tx.Create(&n).Error
}

// notifyApprovers tells every active approver about a fresh pending
// request. The requester is skipped: a manager whose vendor deletion was
// queued for an admin does not need to hear about their own submission.
func notifyApprovers(tx *gorm.DB, now time.Time, req *models.ChangeRequest, requesterID uint) error {
	var approvers []models.User
	err := tx.
		Where("role IN ? AND status = ?", policy.ApproverRoles(), models.UserActive).
		Find(&approvers).Error
	if err != nil {
		return err
	}

	title := "Approval required"
	msg := fmt.Sprintf("A %s %s request (#%d) is waiting for review.",
		req.TargetKind, req.RequestType, req.ID)

	notifs := make([]models.Notification, 0, len(approvers))
	for _, u := range approvers {
		if u.ID == requesterID {
			continue
		}
		notifs = append(notifs, models.Notification{
			CreatedAt:    now,
			UserID:       u.ID,
			Title:        title,
			Message:      msg,
			Type:         models.NotifyWarning,
			RelatedTable: "change_requests",
			RelatedID:    &req.ID,
		})
	}
	if len(notifs) == 0 {
		return nil
	}
	return tx.Create(&notifs).Error
}
