// Package approval decides whether a mutation applies immediately or is
// parked as a pending change request, and drives that request's
// pending→approved/rejected lifecycle.
package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fleet-admin/internal/models"
	"fleet-admin/internal/policy"
)

// Actor — the authenticated user an operation runs as. Always passed in
// explicitly; the engine never reads ambient session state.
type Actor struct {
	ID   uint
	Role models.UserRole
	IP   string
}

type SubmitInput struct {
	TargetKind     models.TargetKind
	RequestType    models.RequestType
	ProposedData   map[string]any
	TargetEntityID *uint
	Reason         string
}

type SubmissionResult struct {
	Applied   bool
	RequestID uint // set on the deferred path
	EntityID  uint // set on the direct path
}

type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Submit routes a proposed mutation: approvers apply it on the spot,
// everyone else gets a pending change request plus an approver fan-out.
// Either way the whole operation is one transaction.
func (e *Engine) Submit(actor Actor, in SubmitInput) (*SubmissionResult, error) {
	key := mutatorKey{in.TargetKind, in.RequestType}
	if _, ok := mutators[key]; !ok {
		return nil, ErrUnknownMutation
	}
	if in.ProposedData == nil {
		in.ProposedData = map[string]any{}
	}
	if !policy.Known(actor.Role) {
		return nil, policy.ErrUnauthorizedRole
	}

	direct := policy.CanApprove(actor.Role)
	if in.TargetKind == models.KindVendorDeletion {
		// managers can approve deletions but not perform them outright
		direct = policy.CanDeleteDirectly(actor.Role)
	}
	if !direct && !policy.CanPropose(actor.Role, in.TargetKind, in.RequestType) {
		return nil, policy.ErrUnauthorizedRole
	}

	if in.RequestType != models.RequestCreate && in.TargetEntityID == nil {
		return nil, invalidField("target_entity_id", "is required for this request type")
	}

	var res SubmissionResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if direct {
			entityID, err := mutators[key](&mutatorContext{
				tx:       tx,
				now:      e.now(),
				actor:    actor,
				targetID: in.TargetEntityID,
				data:     in.ProposedData,
			})
			if err != nil {
				return err
			}
			res = SubmissionResult{Applied: true, EntityID: entityID}
			return nil
		}
		return e.submitDeferred(tx, actor, in, key, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (e *Engine) submitDeferred(tx *gorm.DB, actor Actor, in SubmitInput, key mutatorKey, res *SubmissionResult) error {
	// reject malformed data before it can sit in the queue
	if check := payloadChecks[key]; check != nil {
		if err := check(in.ProposedData); err != nil {
			return err
		}
	}

	targetID := in.TargetEntityID
	var current datatypes.JSON
	if targetID != nil {
		snap, err := snapshotCurrent(tx, in.TargetKind, *targetID)
		if err != nil {
			return err
		}
		current = snap
	}

	if provision, ok := placeholders[key]; ok && targetID == nil {
		id, err := provision(tx, in.ProposedData)
		if err != nil {
			return err
		}
		targetID = &id
	}

	proposed, err := json.Marshal(in.ProposedData)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}

	req := models.ChangeRequest{
		CreatedAt:      e.now(),
		TargetKind:     in.TargetKind,
		RequestType:    in.RequestType,
		TargetEntityID: targetID,
		CurrentData:    current,
		ProposedData:   datatypes.JSON(proposed),
		RequestedBy:    actor.ID,
		Reason:         strings.TrimSpace(in.Reason),
		Status:         models.RequestPending,
	}
	if err := tx.Create(&req).Error; err != nil {
		return err
	}

	if err := notifyApprovers(tx, e.now(), &req, actor.ID); err != nil {
		return err
	}

	*res = SubmissionResult{Applied: false, RequestID: req.ID}
	return nil
}

// Approve runs the matching mutator and closes the request. The pending
// re-read plus the conditional update below are the double-approval
// guard: whichever concurrent decision loses the update sees zero rows
// affected and reports ErrAlreadyProcessed.
func (e *Engine) Approve(approver Actor, requestID uint) error {
	if !policy.CanApprove(approver.Role) {
		return policy.ErrUnauthorizedRole
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		req, err := loadPending(tx, requestID)
		if err != nil {
			return err
		}

		mutate, ok := mutators[mutatorKey{req.TargetKind, req.RequestType}]
		if !ok {
			return ErrUnknownMutation
		}

		var data map[string]any
		if err := json.Unmarshal(req.ProposedData, &data); err != nil {
			return &ValidationError{Reason: "stored payload is unreadable: " + err.Error()}
		}

		now := e.now()
		entityID, err := mutate(&mutatorContext{
			tx:       tx,
			now:      now,
			actor:    approver,
			targetID: req.TargetEntityID,
			data:     data,
		})
		if err != nil {
			return err
		}

		updates := map[string]any{
			"status":      models.RequestApproved,
			"approved_by": approver.ID,
			"approved_at": now,
		}
		if req.TargetEntityID == nil && entityID != 0 {
			updates["target_entity_id"] = entityID
		}
		if err := transition(tx, req.ID, updates); err != nil {
			return err
		}

		if err := logDecision(tx, now, approver, req, "approve", ""); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your %s %s request #%d has been approved.",
			req.TargetKind, req.RequestType, req.ID)
		return notifyUser(tx, now, req.RequestedBy, models.NotifySuccess,
			"Request approved", msg, "change_requests", &req.ID)
	})
}

// Reject closes the request without applying it and tears down any
// placeholder row a create request provisioned.
func (e *Engine) Reject(approver Actor, requestID uint, reason string) error {
	if !policy.CanApprove(approver.Role) {
		return policy.ErrUnauthorizedRole
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		req, err := loadPending(tx, requestID)
		if err != nil {
			return err
		}

		// transition first: the conditional update is the sole arbiter of
		// who decided the request, so a racing loser reports a conflict
		// instead of tripping over an already-removed placeholder
		now := e.now()
		if err := transition(tx, req.ID, map[string]any{
			"status":           models.RequestRejected,
			"approved_by":      approver.ID,
			"approved_at":      now,
			"rejection_reason": reason,
		}); err != nil {
			return err
		}

		if req.RequestType == models.RequestCreate && req.TargetEntityID != nil {
			if discard, ok := discards[mutatorKey{req.TargetKind, req.RequestType}]; ok {
				if err := discard(tx, *req.TargetEntityID); err != nil {
					return err
				}
			}
		}

		if err := logDecision(tx, now, approver, req, "reject", reason); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your %s %s request #%d was rejected: %s",
			req.TargetKind, req.RequestType, req.ID, reason)
		return notifyUser(tx, now, req.RequestedBy, models.NotifyError,
			"Request rejected", msg, "change_requests", &req.ID)
	})
}

// loadPending distinguishes a request that never existed from one that
// has already been decided.
func loadPending(tx *gorm.DB, requestID uint) (*models.ChangeRequest, error) {
	var req models.ChangeRequest
	err := tx.Where("id = ? AND status = ?", requestID, models.RequestPending).First(&req).Error
	if err == nil {
		return &req, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var count int64
	if err := tx.Model(&models.ChangeRequest{}).Where("id = ?", requestID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEntityNotFound
	}
	return nil, ErrAlreadyProcessed
}

// transition flips the status with a conditional update; losing a race
// means zero rows affected, never a silent second win.
func transition(tx *gorm.DB, requestID uint, updates map[string]any) error {
	res := tx.Model(&models.ChangeRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrAlreadyProcessed
	}
	return nil
}

func snapshotCurrent(tx *gorm.DB, kind models.TargetKind, id uint) (datatypes.JSON, error) {
	var entity any
	switch kind {
	case models.KindVehicle:
		var v models.Vehicle
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEntityNotFound
			}
			return nil, err
		}
		entity = v
	case models.KindVendor, models.KindVendorBank, models.KindVendorDeletion:
		var v models.Vendor
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEntityNotFound
			}
			return nil, err
		}
		entity = v
	default:
		return nil, ErrUnknownMutation
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func logDecision(tx *gorm.DB, now time.Time, approver Actor, req *models.ChangeRequest, action, detail string) error {
	details := fmt.Sprintf("%s %s request #%d", req.TargetKind, req.RequestType, req.ID)
	if detail != "" {
		details += ": " + detail
	}
	record := models.AuditLog{
		CreatedAt: now,
		UserID:    approver.ID,
		Entity:    "change_request",
		EntityID:  req.ID,
		Action:    action,
		Details:   details,
		IPAddress: approver.IP,
	}
	return tx.Create(&record).Error
}
