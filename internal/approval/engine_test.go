package approval

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fleet-admin/internal/database"
	"fleet-admin/internal/models"
	"fleet-admin/internal/policy"
)

var testClock = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// named in-memory db: gorm's pool may open several connections and
	// each plain :memory: connection would get its own empty database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEngine(db *gorm.DB) *Engine {
	e := NewEngine(db)
	e.now = func() time.Time { return testClock }
	return e
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, status models.UserStatus) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

type fixture struct {
	db  *gorm.DB
	eng *Engine

	l2       Actor
	l1       Actor
	staff    Actor
	manager1 Actor
	manager2 Actor
	admin    Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	l2 := seedUser(t, db, "l2@fleet.local", models.RoleL2Supervisor, models.UserActive)
	l1 := seedUser(t, db, "l1@fleet.local", models.RoleL1Supervisor, models.UserActive)
	staff := seedUser(t, db, "staff@fleet.local", models.RoleStaff, models.UserActive)
	m1 := seedUser(t, db, "manager1@fleet.local", models.RoleManager1, models.UserActive)
	m2 := seedUser(t, db, "manager2@fleet.local", models.RoleManager2, models.UserActive)
	admin := seedUser(t, db, "admin@fleet.local", models.RoleAdmin, models.UserActive)
	// a disabled approver must never receive fan-out
	seedUser(t, db, "gone@fleet.local", models.RoleManager1, models.UserDisabled)

	return &fixture{
		db:       db,
		eng:      newTestEngine(db),
		l2:       Actor{ID: l2.ID, Role: l2.Role, IP: "10.0.0.8"},
		l1:       Actor{ID: l1.ID, Role: l1.Role, IP: "10.0.0.9"},
		staff:    Actor{ID: staff.ID, Role: staff.Role, IP: "10.0.0.10"},
		manager1: Actor{ID: m1.ID, Role: m1.Role, IP: "10.0.0.11"},
		manager2: Actor{ID: m2.ID, Role: m2.Role, IP: "10.0.0.12"},
		admin:    Actor{ID: admin.ID, Role: admin.Role, IP: "10.0.0.13"},
	}
}

func vehicleCreateData() map[string]any {
	return map[string]any{
		"vehicle_number": "UP25GT0880",
		"driver_name":    "Ram",
		"owner_name":     "Shyam",
	}
}

//
// SUBMIT
//

func TestSubmitDeferredVehicleCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
		Reason:       "new truck joined the fleet",
	})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.NotZero(t, res.RequestID)

	// the request is pending and no live vehicle row exists
	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, models.KindVehicle, req.TargetKind)
	assert.Equal(t, f.l2.ID, req.RequestedBy)
	assert.Nil(t, req.TargetEntityID)

	var vehicles int64
	f.db.Model(&models.Vehicle{}).Count(&vehicles)
	assert.Zero(t, vehicles)

	// every active approver got exactly one notification
	for _, actor := range []Actor{f.manager1, f.manager2, f.admin} {
		var n int64
		f.db.Model(&models.Notification{}).Where("user_id = ?", actor.ID).Count(&n)
		assert.EqualValues(t, 1, n, "approver %d", actor.ID)
	}
	// and the disabled approver was skipped
	var total int64
	f.db.Model(&models.Notification{}).Count(&total)
	assert.EqualValues(t, 3, total)
}

func TestSubmitDirectVehicleCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.admin, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.NotZero(t, res.EntityID)

	var requests int64
	f.db.Model(&models.ChangeRequest{}).Count(&requests)
	assert.Zero(t, requests)

	var vehicle models.Vehicle
	require.NoError(t, f.db.First(&vehicle, res.EntityID).Error)
	assert.Equal(t, "UP25GT0880", vehicle.VehicleNumber)
	assert.Equal(t, models.VehicleAvailable, vehicle.CurrentStatus)
	assert.Equal(t, models.ApprovalApproved, vehicle.ApprovalStatus)
}

func TestSubmitUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Submit(f.staff, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	assert.ErrorIs(t, err, policy.ErrUnauthorizedRole)

	unknown := Actor{ID: 999, Role: models.UserRole("intern")}
	_, err = f.eng.Submit(unknown, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	assert.ErrorIs(t, err, policy.ErrUnauthorizedRole)
}

func TestSubmitUnknownMutation(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Submit(f.admin, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestDeletion,
		ProposedData: map[string]any{},
	})
	assert.ErrorIs(t, err, ErrUnknownMutation)
}

func TestSubmitDeferredRejectsBadPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:  models.KindVehicle,
		RequestType: models.RequestCreate,
		ProposedData: map[string]any{
			"vehicle_number": "UP25GT0880",
			"owner_name":     "Shyam",
			"colour":         "blue", // not a recognized field
		},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "colour", ve.Field)

	// nothing queued, nobody notified
	var requests, notifs int64
	f.db.Model(&models.ChangeRequest{}).Count(&requests)
	f.db.Model(&models.Notification{}).Count(&notifs)
	assert.Zero(t, requests)
	assert.Zero(t, notifs)
}

//
// APPROVE
//

func TestApproveVehicleCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Approve(f.manager1, res.RequestID))

	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.Equal(t, models.RequestApproved, req.Status)
	require.NotNil(t, req.ApprovedBy)
	assert.Equal(t, f.manager1.ID, *req.ApprovedBy)
	require.NotNil(t, req.ApprovedAt)
	require.NotNil(t, req.TargetEntityID, "approved create should back-link the new vehicle")

	var vehicle models.Vehicle
	require.NoError(t, f.db.First(&vehicle, *req.TargetEntityID).Error)
	assert.Equal(t, "UP25GT0880", vehicle.VehicleNumber)
	assert.Equal(t, models.VehicleAvailable, vehicle.CurrentStatus)
	assert.Equal(t, models.ApprovalApproved, vehicle.ApprovalStatus)

	// requester hears about it
	var notif models.Notification
	require.NoError(t, f.db.
		Where("user_id = ? AND type = ?", f.l2.ID, models.NotifySuccess).
		First(&notif).Error)
	assert.Contains(t, notif.Message, "approved")
}

func TestApproveRequiresApproverRole(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.eng.Approve(f.l2, res.RequestID), policy.ErrUnauthorizedRole)
	assert.ErrorIs(t, f.eng.Reject(f.l1, res.RequestID, "nope"), policy.ErrUnauthorizedRole)
}

func TestApproveMissingRequest(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.eng.Approve(f.manager1, 12345), ErrEntityNotFound)
}

func TestDecisionIsTerminal(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Approve(f.manager1, res.RequestID))

	// the second decision, whichever way, loses
	assert.ErrorIs(t, f.eng.Approve(f.manager2, res.RequestID), ErrAlreadyProcessed)
	assert.ErrorIs(t, f.eng.Reject(f.manager2, res.RequestID, "late"), ErrAlreadyProcessed)

	// exactly one vehicle came out of it
	var vehicles int64
	f.db.Model(&models.Vehicle{}).Count(&vehicles)
	assert.EqualValues(t, 1, vehicles)
}

// singleWriter funnels the pool through one connection so goroutine
// transactions queue instead of hitting sqlite's single-writer lock.
func singleWriter(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
}

func TestConcurrentDecisionsSingleWinner(t *testing.T) {
	f := newFixture(t)
	singleWriter(t, f.db)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- f.eng.Approve(f.manager1, res.RequestID)
	}()
	go func() {
		defer wg.Done()
		errs <- f.eng.Reject(f.manager2, res.RequestID, "duplicate")
	}()
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyProcessed):
			conflicts++
		default:
			t.Fatalf("unexpected decision error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	// the outcome matches whichever decision won
	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	var vehicles int64
	f.db.Model(&models.Vehicle{}).Where("vehicle_number = ?", "UP25GT0880").Count(&vehicles)
	switch req.Status {
	case models.RequestApproved:
		assert.EqualValues(t, 1, vehicles)
	case models.RequestRejected:
		assert.Zero(t, vehicles)
	default:
		t.Fatalf("request left in status %q", req.Status)
	}
}

func TestConcurrentRejectsOneConflict(t *testing.T) {
	f := newFixture(t)
	singleWriter(t, f.db)

	// vendor create, so a placeholder row is in play: the losing reject
	// must report a conflict, not a missing placeholder
	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVendor,
		RequestType:  models.RequestCreate,
		ProposedData: map[string]any{"name": "Sharma Transport Co"},
	})
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- f.eng.Reject(f.manager1, res.RequestID, "duplicate")
	}()
	go func() {
		defer wg.Done()
		errs <- f.eng.Reject(f.manager2, res.RequestID, "duplicate")
	}()
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyProcessed):
		default:
			t.Fatalf("unexpected decision error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)

	// the placeholder was discarded exactly once
	var stubs int64
	f.db.Unscoped().Model(&models.Vendor{}).Count(&stubs)
	assert.Zero(t, stubs)
}

func TestApproveFailedMutatorKeepsRequestPending(t *testing.T) {
	f := newFixture(t)

	// park an update for a vehicle that will vanish before the decision
	vehicle := models.Vehicle{
		VehicleNumber:  "MH12AB1234",
		OwnerName:      "Shyam",
		CurrentStatus:  models.VehicleAvailable,
		ApprovalStatus: models.ApprovalApproved,
	}
	require.NoError(t, f.db.Create(&vehicle).Error)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   map[string]any{"owner_name": "Mohan"},
		TargetEntityID: &vehicle.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Unscoped().Delete(&models.Vehicle{}, vehicle.ID).Error)

	assert.ErrorIs(t, f.eng.Approve(f.manager1, res.RequestID), ErrEntityNotFound)

	// the whole transaction rolled back: still pending, no success notification
	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.Equal(t, models.RequestPending, req.Status)

	var n int64
	f.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", f.l2.ID, models.NotifySuccess).
		Count(&n)
	assert.Zero(t, n)
}

//
// REJECT
//

func TestRejectVehicleCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Reject(f.manager1, res.RequestID, "Duplicate entry"))

	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.Equal(t, models.RequestRejected, req.Status)
	assert.Equal(t, "Duplicate entry", req.RejectionReason)
	require.NotNil(t, req.ApprovedBy)
	assert.Equal(t, f.manager1.ID, *req.ApprovedBy)

	var vehicles int64
	f.db.Model(&models.Vehicle{}).Count(&vehicles)
	assert.Zero(t, vehicles)

	// the supplied reason reaches the requester verbatim
	var notif models.Notification
	require.NoError(t, f.db.
		Where("user_id = ? AND type = ?", f.l2.ID, models.NotifyError).
		First(&notif).Error)
	assert.Contains(t, notif.Message, "Duplicate entry")
}

func TestRejectDefaultsEmptyReason(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: vehicleCreateData(),
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Reject(f.manager1, res.RequestID, "   "))

	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.Equal(t, "No reason provided", req.RejectionReason)
}

func TestRejectUpdateLeavesEntityUntouched(t *testing.T) {
	f := newFixture(t)

	vehicle := models.Vehicle{
		VehicleNumber:  "MH12AB1234",
		OwnerName:      "Shyam",
		DriverName:     "Ram",
		CurrentStatus:  models.VehicleAvailable,
		ApprovalStatus: models.ApprovalApproved,
	}
	require.NoError(t, f.db.Create(&vehicle).Error)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   map[string]any{"owner_name": "Mohan", "driver_name": "Hari"},
		TargetEntityID: &vehicle.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Reject(f.manager2, res.RequestID, "not verified"))

	var got models.Vehicle
	require.NoError(t, f.db.First(&got, vehicle.ID).Error)
	assert.Equal(t, "Shyam", got.OwnerName)
	assert.Equal(t, "Ram", got.DriverName)
}

//
// ROUND TRIPS
//

func TestApprovedUpdateEqualsDirectApply(t *testing.T) {
	f := newFixture(t)

	mk := func(number string) uint {
		v := models.Vehicle{
			VehicleNumber:  number,
			OwnerName:      "Shyam",
			CurrentStatus:  models.VehicleAvailable,
			ApprovalStatus: models.ApprovalApproved,
		}
		require.NoError(t, f.db.Create(&v).Error)
		return v.ID
	}
	deferredID := mk("KA01AA1111")
	directID := mk("KA01BB2222")

	payload := func() map[string]any {
		return map[string]any{
			"owner_name":     "Mohan",
			"driver_name":    "Hari",
			"driver_phone":   "9876543210",
			"current_status": "maintenance",
			"financier_name": "Shriram Finance",
			"loan_amount":    350000.0,
			"emi_amount":     12500.0,
			"emi_due_day":    7.0,
		}
	}

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   payload(),
		TargetEntityID: &deferredID,
	})
	require.NoError(t, err)
	require.NoError(t, f.eng.Approve(f.manager1, res.RequestID))

	direct, err := f.eng.Submit(f.admin, SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   payload(),
		TargetEntityID: &directID,
	})
	require.NoError(t, err)
	require.True(t, direct.Applied)

	var a, b models.Vehicle
	require.NoError(t, f.db.Preload("Financing").First(&a, deferredID).Error)
	require.NoError(t, f.db.Preload("Financing").First(&b, directID).Error)

	assert.Equal(t, b.OwnerName, a.OwnerName)
	assert.Equal(t, b.DriverName, a.DriverName)
	assert.Equal(t, b.DriverPhone, a.DriverPhone)
	assert.Equal(t, b.CurrentStatus, a.CurrentStatus)
	require.NotNil(t, a.Financing)
	require.NotNil(t, b.Financing)
	assert.Equal(t, b.Financing.FinancierName, a.Financing.FinancierName)
	assert.Equal(t, b.Financing.LoanAmount, a.Financing.LoanAmount)
	assert.Equal(t, b.Financing.EMIAmount, a.Financing.EMIAmount)
	assert.Equal(t, b.Financing.EMIDueDay, a.Financing.EMIDueDay)
}

//
// VENDORS
//

func vendorCreateData() map[string]any {
	return map[string]any{
		"name":           "Sharma Transport Co",
		"contact_person": "R K Sharma",
		"phone":          "9811122233",
		"city":           "Bareilly",
	}
}

func TestVendorCreatePlaceholderLifecycle(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l1, SubmitInput{
		TargetKind:   models.KindVendor,
		RequestType:  models.RequestCreate,
		ProposedData: vendorCreateData(),
	})
	require.NoError(t, err)
	require.False(t, res.Applied)

	// placeholder exists in pending state and is linked to the request
	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	require.NotNil(t, req.TargetEntityID)

	var vendor models.Vendor
	require.NoError(t, f.db.First(&vendor, *req.TargetEntityID).Error)
	assert.Equal(t, models.ApprovalPending, vendor.ApprovalStatus)

	require.NoError(t, f.eng.Approve(f.manager2, res.RequestID))

	require.NoError(t, f.db.First(&vendor, *req.TargetEntityID).Error)
	assert.Equal(t, models.ApprovalApproved, vendor.ApprovalStatus)

	// registration approval leaves an approval-log entry with actor and IP
	var entry models.AuditLog
	require.NoError(t, f.db.
		Where("entity = ? AND entity_id = ? AND action = ?", "vendor", vendor.ID, "register").
		First(&entry).Error)
	assert.Equal(t, f.manager2.ID, entry.UserID)
	assert.Equal(t, f.manager2.IP, entry.IPAddress)
}

func TestVendorCreateRejectRemovesPlaceholder(t *testing.T) {
	f := newFixture(t)

	res, err := f.eng.Submit(f.l1, SubmitInput{
		TargetKind:   models.KindVendor,
		RequestType:  models.RequestCreate,
		ProposedData: vendorCreateData(),
	})
	require.NoError(t, err)

	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	require.NotNil(t, req.TargetEntityID)

	require.NoError(t, f.eng.Reject(f.admin, res.RequestID, "vendor already onboarded"))

	// gone for good, not just soft-deleted
	var count int64
	f.db.Unscoped().Model(&models.Vendor{}).Where("id = ?", *req.TargetEntityID).Count(&count)
	assert.Zero(t, count)
}

func TestVendorBankUpdateCopiesFields(t *testing.T) {
	f := newFixture(t)

	vendor := models.Vendor{Name: "Sharma Transport Co", ApprovalStatus: models.ApprovalApproved}
	require.NoError(t, f.db.Create(&vendor).Error)

	res, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:  models.KindVendorBank,
		RequestType: models.RequestUpdate,
		ProposedData: map[string]any{
			"bank_name":      "State Bank of India",
			"account_number": "3061234567",
			"branch_name":    "Bareilly Cantt",
			"ifsc_code":      "SBIN0001707",
		},
		TargetEntityID: &vendor.ID,
	})
	require.NoError(t, err)
	require.False(t, res.Applied)

	// the snapshot of the pre-change state rides along
	var req models.ChangeRequest
	require.NoError(t, f.db.First(&req, res.RequestID).Error)
	assert.NotEmpty(t, req.CurrentData)

	require.NoError(t, f.eng.Approve(f.manager1, res.RequestID))

	var got models.Vendor
	require.NoError(t, f.db.First(&got, vendor.ID).Error)
	assert.Equal(t, "State Bank of India", got.BankName)
	assert.Equal(t, "3061234567", got.AccountNumber)
	assert.Equal(t, "Bareilly Cantt", got.BranchName)
	assert.Equal(t, "SBIN0001707", got.IFSCCode)
}

func TestVendorDeletionCascade(t *testing.T) {
	f := newFixture(t)

	vendor := models.Vendor{Name: "Sharma Transport Co", ApprovalStatus: models.ApprovalApproved}
	require.NoError(t, f.db.Create(&vendor).Error)
	require.NoError(t, f.db.Create(&models.VendorContact{VendorID: vendor.ID, Name: "R K Sharma"}).Error)
	require.NoError(t, f.db.Create(&models.VendorService{VendorID: vendor.ID, ServiceName: "FTL"}).Error)
	require.NoError(t, f.db.Create(&models.VendorDocument{VendorID: vendor.ID, DocType: "gst"}).Error)
	require.NoError(t, f.db.Create(&models.VendorVehicle{VendorID: vendor.ID, VehicleNumber: "UP25HT0011"}).Error)

	// manager proposes, admin approves
	res, err := f.eng.Submit(f.manager1, SubmitInput{
		TargetKind:     models.KindVendorDeletion,
		RequestType:    models.RequestDeletion,
		TargetEntityID: &vendor.ID,
		Reason:         "contract ended",
	})
	require.NoError(t, err)
	require.False(t, res.Applied, "managers cannot delete vendors directly")

	require.NoError(t, f.eng.Approve(f.admin, res.RequestID))

	// vendor soft-deleted
	var gone models.Vendor
	assert.Error(t, f.db.First(&gone, vendor.ID).Error)
	require.NoError(t, f.db.Unscoped().First(&gone, vendor.ID).Error)
	assert.True(t, gone.DeletedAt.Valid)

	// contacts and services hard-deleted
	var contacts, services int64
	f.db.Model(&models.VendorContact{}).Where("vendor_id = ?", vendor.ID).Count(&contacts)
	f.db.Model(&models.VendorService{}).Where("vendor_id = ?", vendor.ID).Count(&services)
	assert.Zero(t, contacts)
	assert.Zero(t, services)

	// documents and vehicles soft-deleted
	var docs, wheels int64
	f.db.Model(&models.VendorDocument{}).Where("vendor_id = ?", vendor.ID).Count(&docs)
	f.db.Model(&models.VendorVehicle{}).Where("vendor_id = ?", vendor.ID).Count(&wheels)
	assert.Zero(t, docs)
	assert.Zero(t, wheels)
	f.db.Unscoped().Model(&models.VendorDocument{}).Where("vendor_id = ?", vendor.ID).Count(&docs)
	f.db.Unscoped().Model(&models.VendorVehicle{}).Where("vendor_id = ?", vendor.ID).Count(&wheels)
	assert.EqualValues(t, 1, docs)
	assert.EqualValues(t, 1, wheels)

	// approval-log entry + notification to the requesting manager
	var entry models.AuditLog
	require.NoError(t, f.db.
		Where("entity = ? AND entity_id = ? AND action = ?", "vendor", vendor.ID, "delete").
		First(&entry).Error)
	assert.Equal(t, f.admin.ID, entry.UserID)

	var notif models.Notification
	require.NoError(t, f.db.
		Where("user_id = ? AND type = ?", f.manager1.ID, models.NotifySuccess).
		First(&notif).Error)
}

func TestAdminDeletesVendorDirectly(t *testing.T) {
	f := newFixture(t)

	vendor := models.Vendor{Name: "Sharma Transport Co", ApprovalStatus: models.ApprovalApproved}
	require.NoError(t, f.db.Create(&vendor).Error)

	res, err := f.eng.Submit(f.admin, SubmitInput{
		TargetKind:     models.KindVendorDeletion,
		RequestType:    models.RequestDeletion,
		TargetEntityID: &vendor.ID,
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)

	var requests int64
	f.db.Model(&models.ChangeRequest{}).Count(&requests)
	assert.Zero(t, requests)

	assert.Error(t, f.db.First(&models.Vendor{}, vendor.ID).Error)
}

func TestSubmitUpdateMissingEntity(t *testing.T) {
	f := newFixture(t)

	missing := uint(424242)
	_, err := f.eng.Submit(f.l2, SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   map[string]any{"owner_name": "Mohan"},
		TargetEntityID: &missing,
	})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}
