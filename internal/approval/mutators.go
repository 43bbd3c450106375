package approval

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fleet-admin/internal/models"
)

// Entity mutators: one per (target_kind, request_type) pair. Each one runs
// inside the engine's transaction and applies proposed_data to the live
// schema; any error it returns rolls the whole operation back.

type mutatorKey struct {
	kind models.TargetKind
	op   models.RequestType
}

var (
	vehicleCreateKey  = mutatorKey{models.KindVehicle, models.RequestCreate}
	vehicleUpdateKey  = mutatorKey{models.KindVehicle, models.RequestUpdate}
	vendorCreateKey   = mutatorKey{models.KindVendor, models.RequestCreate}
	vendorUpdateKey   = mutatorKey{models.KindVendor, models.RequestUpdate}
	vendorBankKey     = mutatorKey{models.KindVendorBank, models.RequestUpdate}
	vendorDeletionKey = mutatorKey{models.KindVendorDeletion, models.RequestDeletion}
)

type mutatorContext struct {
	tx    *gorm.DB
	now   time.Time
	actor Actor

	targetID *uint
	data     map[string]any
}

// A mutator returns the id of the entity it touched so the engine can
// back-link the change request and the notifications.
type mutatorFunc func(mc *mutatorContext) (uint, error)

var mutators = map[mutatorKey]mutatorFunc{
	vehicleCreateKey:  applyVehicleCreate,
	vehicleUpdateKey:  applyVehicleUpdate,
	vendorCreateKey:   applyVendorCreate,
	vendorUpdateKey:   applyVendorUpdate,
	vendorBankKey:     applyVendorBankUpdate,
	vendorDeletionKey: applyVendorDeletion,
}

// placeholders provision a pending row at submission time so the entity
// can be referenced before the request is decided. Only vendors get this
// treatment; a deferred vehicle create has no live row until approval.
var placeholders = map[mutatorKey]func(tx *gorm.DB, data map[string]any) (uint, error){
	vendorCreateKey: provisionVendorPlaceholder,
}

// discards undo a placeholder when its create request is rejected.
var discards = map[mutatorKey]func(tx *gorm.DB, targetID uint) error{
	vendorCreateKey: discardVendorPlaceholder,
}

//
// VEHICLE
//

func applyVehicleCreate(mc *mutatorContext) (uint, error) {
	var p vehicleCreatePayload
	if err := decodeStrict(mc.data, vehicleCreateKeys, &p); err != nil {
		return 0, err
	}

	var count int64
	if err := mc.tx.Model(&models.Vehicle{}).
		Where("vehicle_number = ?", p.VehicleNumber).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, invalidField("vehicle_number", "is already registered")
	}

	vehicle := models.Vehicle{
		VehicleNumber:  p.VehicleNumber,
		VehicleType:    p.VehicleType,
		MakerModel:     p.MakerModel,
		OwnerName:      p.OwnerName,
		OwnerPhone:     p.OwnerPhone,
		DriverName:     p.DriverName,
		DriverPhone:    p.DriverPhone,
		CurrentStatus:  models.VehicleAvailable,
		ApprovalStatus: models.ApprovalApproved,
	}
	if err := mc.tx.Create(&vehicle).Error; err != nil {
		return 0, err
	}

	if p.FinancierName != "" || p.LoanAmount != nil || p.EMIAmount != nil || p.EMIDueDay != nil {
		fin := models.VehicleFinancing{
			VehicleID:     vehicle.ID,
			FinancierName: p.FinancierName,
		}
		if p.LoanAmount != nil {
			fin.LoanAmount = *p.LoanAmount
		}
		if p.EMIAmount != nil {
			fin.EMIAmount = *p.EMIAmount
		}
		if p.EMIDueDay != nil {
			fin.EMIDueDay = *p.EMIDueDay
		}
		if err := mc.tx.Create(&fin).Error; err != nil {
			return 0, err
		}
	}

	return vehicle.ID, nil
}

func applyVehicleUpdate(mc *mutatorContext) (uint, error) {
	if mc.targetID == nil {
		return 0, invalidField("target_entity_id", "is required for updates")
	}

	var p vehicleUpdatePayload
	if err := decodeStrict(mc.data, vehicleUpdateKeys, &p); err != nil {
		return 0, err
	}

	var vehicle models.Vehicle
	if err := mc.tx.First(&vehicle, *mc.targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEntityNotFound
		}
		return 0, err
	}

	if p.VehicleNumber != nil {
		vehicle.VehicleNumber = *p.VehicleNumber
	}
	if p.VehicleType != nil {
		vehicle.VehicleType = *p.VehicleType
	}
	if p.MakerModel != nil {
		vehicle.MakerModel = *p.MakerModel
	}
	if p.OwnerName != nil {
		vehicle.OwnerName = *p.OwnerName
	}
	if p.OwnerPhone != nil {
		vehicle.OwnerPhone = *p.OwnerPhone
	}
	if p.DriverName != nil {
		vehicle.DriverName = *p.DriverName
	}
	if p.DriverPhone != nil {
		vehicle.DriverPhone = *p.DriverPhone
	}
	if p.CurrentStatus != nil {
		vehicle.CurrentStatus = models.VehicleStatus(*p.CurrentStatus)
	}

	if err := mc.tx.Save(&vehicle).Error; err != nil {
		return 0, err
	}

	// keep the assigned driver's record in step with the vehicle
	if p.DriverName != nil || p.DriverPhone != nil {
		updates := map[string]any{}
		if p.DriverName != nil {
			updates["name"] = *p.DriverName
		}
		if p.DriverPhone != nil {
			updates["phone"] = *p.DriverPhone
		}
		if err := mc.tx.Model(&models.Driver{}).
			Where("vehicle_id = ?", vehicle.ID).
			Updates(updates).Error; err != nil {
			return 0, err
		}
	}

	if p.touchesFinancing() {
		if err := upsertFinancing(mc.tx, vehicle.ID, &p); err != nil {
			return 0, err
		}
	}

	return vehicle.ID, nil
}

func upsertFinancing(tx *gorm.DB, vehicleID uint, p *vehicleUpdatePayload) error {
	var fin models.VehicleFinancing
	err := tx.Where("vehicle_id = ?", vehicleID).First(&fin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	fin.VehicleID = vehicleID
	if p.FinancierName != nil {
		fin.FinancierName = *p.FinancierName
	}
	if p.LoanAmount != nil {
		fin.LoanAmount = *p.LoanAmount
	}
	if p.EMIAmount != nil {
		fin.EMIAmount = *p.EMIAmount
	}
	if p.EMIDueDay != nil {
		fin.EMIDueDay = *p.EMIDueDay
	}
	return tx.Save(&fin).Error
}

//
// VENDOR
//

// provisionVendorPlaceholder inserts the vendor in a pending state at
// submission time, before any approver has seen the request.
func provisionVendorPlaceholder(tx *gorm.DB, data map[string]any) (uint, error) {
	var p vendorCreatePayload
	if err := decodeStrict(data, vendorCreateKeys, &p); err != nil {
		return 0, err
	}

	vendor := vendorFromPayload(&p)
	vendor.ApprovalStatus = models.ApprovalPending
	if err := tx.Create(&vendor).Error; err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

func discardVendorPlaceholder(tx *gorm.DB, targetID uint) error {
	// the placeholder was never visible as an approved vendor, remove it
	// for good rather than leaving a soft-deleted stub behind
	res := tx.Unscoped().
		Where("id = ? AND approval_status = ?", targetID, models.ApprovalPending).
		Delete(&models.Vendor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

// applyVendorCreate promotes a placeholder to approved, or inserts an
// approved vendor outright when an approver submits directly.
func applyVendorCreate(mc *mutatorContext) (uint, error) {
	var p vendorCreatePayload
	if err := decodeStrict(mc.data, vendorCreateKeys, &p); err != nil {
		return 0, err
	}

	if mc.targetID == nil {
		vendor := vendorFromPayload(&p)
		vendor.ApprovalStatus = models.ApprovalApproved
		if err := mc.tx.Create(&vendor).Error; err != nil {
			return 0, err
		}
		if err := logApproval(mc, "vendor", vendor.ID, "register", "Vendor registered: "+vendor.Name); err != nil {
			return 0, err
		}
		return vendor.ID, nil
	}

	var vendor models.Vendor
	err := mc.tx.
		Where("id = ? AND approval_status = ?", *mc.targetID, models.ApprovalPending).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEntityNotFound
		}
		return 0, err
	}

	applyVendorFields(&vendor, &p)
	vendor.ApprovalStatus = models.ApprovalApproved
	if err := mc.tx.Save(&vendor).Error; err != nil {
		return 0, err
	}
	if err := logApproval(mc, "vendor", vendor.ID, "register", "Vendor registration approved: "+vendor.Name); err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

func applyVendorUpdate(mc *mutatorContext) (uint, error) {
	if mc.targetID == nil {
		return 0, invalidField("target_entity_id", "is required for updates")
	}

	var p vendorUpdatePayload
	if err := decodeStrict(mc.data, vendorUpdateKeys, &p); err != nil {
		return 0, err
	}

	var vendor models.Vendor
	if err := mc.tx.First(&vendor, *mc.targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEntityNotFound
		}
		return 0, err
	}

	if p.Name != nil {
		vendor.Name = *p.Name
	}
	if p.GSTIN != nil {
		vendor.GSTIN = *p.GSTIN
	}
	if p.ContactPerson != nil {
		vendor.ContactPerson = *p.ContactPerson
	}
	if p.Phone != nil {
		vendor.Phone = *p.Phone
	}
	if p.Email != nil {
		vendor.Email = *p.Email
	}
	if p.Address != nil {
		vendor.Address = *p.Address
	}
	if p.City != nil {
		vendor.City = *p.City
	}

	if err := mc.tx.Save(&vendor).Error; err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

// applyVendorBankUpdate copies the four bank fields onto the vendor row.
func applyVendorBankUpdate(mc *mutatorContext) (uint, error) {
	if mc.targetID == nil {
		return 0, invalidField("target_entity_id", "is required for bank updates")
	}

	var p vendorBankPayload
	if err := decodeStrict(mc.data, vendorBankKeys, &p); err != nil {
		return 0, err
	}

	var vendor models.Vendor
	if err := mc.tx.First(&vendor, *mc.targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEntityNotFound
		}
		return 0, err
	}

	vendor.BankName = p.BankName
	vendor.AccountNumber = p.AccountNumber
	vendor.BranchName = p.BranchName
	vendor.IFSCCode = p.IFSCCode

	if err := mc.tx.Save(&vendor).Error; err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

// applyVendorDeletion cascades: soft-delete vendor_vehicles and
// vendor_documents, hard-delete vendor_contacts and vendor_services,
// then soft-delete the vendor itself.
func applyVendorDeletion(mc *mutatorContext) (uint, error) {
	if mc.targetID == nil {
		return 0, invalidField("target_entity_id", "is required for deletions")
	}

	var p vendorDeletionPayload
	if err := decodeStrict(mc.data, vendorDeletionKeys, &p); err != nil {
		return 0, err
	}

	var vendor models.Vendor
	if err := mc.tx.First(&vendor, *mc.targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEntityNotFound
		}
		return 0, err
	}

	if err := mc.tx.Where("vendor_id = ?", vendor.ID).
		Delete(&models.VendorVehicle{}).Error; err != nil {
		return 0, err
	}
	if err := mc.tx.Where("vendor_id = ?", vendor.ID).
		Delete(&models.VendorDocument{}).Error; err != nil {
		return 0, err
	}
	if err := mc.tx.Where("vendor_id = ?", vendor.ID).
		Delete(&models.VendorContact{}).Error; err != nil {
		return 0, err
	}
	if err := mc.tx.Where("vendor_id = ?", vendor.ID).
		Delete(&models.VendorService{}).Error; err != nil {
		return 0, err
	}

	if err := mc.tx.Delete(&vendor).Error; err != nil {
		return 0, err
	}

	if err := logApproval(mc, "vendor", vendor.ID, "delete", "Vendor deleted: "+vendor.Name); err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

func vendorFromPayload(p *vendorCreatePayload) models.Vendor {
	return models.Vendor{
		Name:          p.Name,
		GSTIN:         p.GSTIN,
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		City:          p.City,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
		BranchName:    p.BranchName,
		IFSCCode:      p.IFSCCode,
	}
}

func applyVendorFields(vendor *models.Vendor, p *vendorCreatePayload) {
	vendor.Name = p.Name
	vendor.GSTIN = p.GSTIN
	vendor.ContactPerson = p.ContactPerson
	vendor.Phone = p.Phone
	vendor.Email = p.Email
	vendor.Address = p.Address
	vendor.City = p.City
	if p.BankName != "" {
		vendor.BankName = p.BankName
	}
	if p.AccountNumber != "" {
		vendor.AccountNumber = p.AccountNumber
	}
	if p.BranchName != "" {
		vendor.BranchName = p.BranchName
	}
	if p.IFSCCode != "" {
		vendor.IFSCCode = p.IFSCCode
	}
}

// logApproval writes the approval-log entry (actor, timestamp, IP) for
// the mutations that require one. The entry rides the same transaction,
// so a failed write aborts the whole operation.
func logApproval(mc *mutatorContext, entity string, entityID uint, action, details string) error {
	record := models.AuditLog{
		CreatedAt: mc.now,
		UserID:    mc.actor.ID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		IPAddress: mc.actor.IP,
	}
	if err := mc.tx.Create(&record).Error; err != nil {
		return fmt.Errorf("approval log: %w", err)
	}
	return nil
}
