package approval

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Typed views of proposed_data. The storage boundary keeps the raw
// field→value map; everything past the engine works on these structs,
// parsed strictly: an unknown or mistyped key is a ValidationError, not
// something to silently drop.

var validate = validator.New()

func init() {
	// report json names, not Go field names, in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type vehicleCreatePayload struct {
	VehicleNumber string `json:"vehicle_number" validate:"required,max=20"`
	VehicleType   string `json:"vehicle_type" validate:"omitempty,max=50"`
	MakerModel    string `json:"maker_model" validate:"omitempty,max=100"`

	OwnerName  string `json:"owner_name" validate:"required,max=255"`
	OwnerPhone string `json:"owner_phone" validate:"omitempty,max=50"`

	DriverName  string `json:"driver_name" validate:"omitempty,max=255"`
	DriverPhone string `json:"driver_phone" validate:"omitempty,max=50"`

	FinancierName string   `json:"financier_name" validate:"omitempty,max=255"`
	LoanAmount    *float64 `json:"loan_amount" validate:"omitempty,gt=0"`
	EMIAmount     *float64 `json:"emi_amount" validate:"omitempty,gt=0"`
	EMIDueDay     *int     `json:"emi_due_day" validate:"omitempty,min=1,max=31"`
}

// Update payloads are field-level diffs: nil means "leave alone".
type vehicleUpdatePayload struct {
	VehicleNumber *string `json:"vehicle_number" validate:"omitempty,min=1,max=20"`
	VehicleType   *string `json:"vehicle_type" validate:"omitempty,max=50"`
	MakerModel    *string `json:"maker_model" validate:"omitempty,max=100"`

	OwnerName  *string `json:"owner_name" validate:"omitempty,min=1,max=255"`
	OwnerPhone *string `json:"owner_phone" validate:"omitempty,max=50"`

	DriverName  *string `json:"driver_name" validate:"omitempty,max=255"`
	DriverPhone *string `json:"driver_phone" validate:"omitempty,max=50"`

	CurrentStatus *string `json:"current_status" validate:"omitempty,oneof=available on_trip maintenance inactive"`

	FinancierName *string  `json:"financier_name" validate:"omitempty,max=255"`
	LoanAmount    *float64 `json:"loan_amount" validate:"omitempty,gt=0"`
	EMIAmount     *float64 `json:"emi_amount" validate:"omitempty,gt=0"`
	EMIDueDay     *int     `json:"emi_due_day" validate:"omitempty,min=1,max=31"`
}

func (p *vehicleUpdatePayload) touchesFinancing() bool {
	return p.FinancierName != nil || p.LoanAmount != nil || p.EMIAmount != nil || p.EMIDueDay != nil
}

type vendorCreatePayload struct {
	Name          string `json:"name" validate:"required,max=255"`
	GSTIN         string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	ContactPerson string `json:"contact_person" validate:"omitempty,max=255"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address" validate:"omitempty,max=1000"`
	City          string `json:"city" validate:"omitempty,max=100"`

	BankName      string `json:"bank_name" validate:"omitempty,max=255"`
	AccountNumber string `json:"account_number" validate:"omitempty,min=6,max=30"`
	BranchName    string `json:"branch_name" validate:"omitempty,max=255"`
	IFSCCode      string `json:"ifsc_code" validate:"omitempty,len=11,alphanum"`
}

type vendorUpdatePayload struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	GSTIN         *string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address" validate:"omitempty,max=1000"`
	City          *string `json:"city" validate:"omitempty,max=100"`
}

type vendorBankPayload struct {
	BankName      string `json:"bank_name" validate:"required,max=255"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=30"`
	BranchName    string `json:"branch_name" validate:"required,max=255"`
	IFSCCode      string `json:"ifsc_code" validate:"required,len=11,alphanum"`
}

// Deletion carries no new field values; the snapshot lives in current_data.
type vendorDeletionPayload struct {
	VendorName string `json:"vendor_name" validate:"omitempty,max=255"`
}

var (
	vehicleCreateKeys  = jsonKeys(vehicleCreatePayload{})
	vehicleUpdateKeys  = jsonKeys(vehicleUpdatePayload{})
	vendorCreateKeys   = jsonKeys(vendorCreatePayload{})
	vendorUpdateKeys   = jsonKeys(vendorUpdatePayload{})
	vendorBankKeys     = jsonKeys(vendorBankPayload{})
	vendorDeletionKeys = jsonKeys(vendorDeletionPayload{})
)

func jsonKeys(v any) map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}

// decodeStrict moves the raw map into a typed payload, rejecting unknown
// keys, wrong types and constraint violations as ValidationError.
func decodeStrict(data map[string]any, known map[string]struct{}, out any) error {
	for k := range data {
		if _, ok := known[k]; !ok {
			return invalidField(k, "is not a recognized field")
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalidField(typeErr.Field, "has the wrong type")
		}
		return &ValidationError{Reason: err.Error()}
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return invalidField(fe.Field(), "failed the '"+fe.Tag()+"' check")
		}
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

// checkPayload validates proposed_data at submission time so that a
// deferred request can never park malformed data in the queue.
var payloadChecks = map[mutatorKey]func(map[string]any) error{
	vehicleCreateKey: func(d map[string]any) error {
		var p vehicleCreatePayload
		return decodeStrict(d, vehicleCreateKeys, &p)
	},
	vehicleUpdateKey: func(d map[string]any) error {
		if len(d) == 0 {
			return &ValidationError{Reason: "update payload is empty"}
		}
		var p vehicleUpdatePayload
		return decodeStrict(d, vehicleUpdateKeys, &p)
	},
	vendorCreateKey: func(d map[string]any) error {
		var p vendorCreatePayload
		return decodeStrict(d, vendorCreateKeys, &p)
	},
	vendorUpdateKey: func(d map[string]any) error {
		if len(d) == 0 {
			return &ValidationError{Reason: "update payload is empty"}
		}
		var p vendorUpdatePayload
		return decodeStrict(d, vendorUpdateKeys, &p)
	},
	vendorBankKey: func(d map[string]any) error {
		var p vendorBankPayload
		return decodeStrict(d, vendorBankKeys, &p)
	},
	vendorDeletionKey: func(d map[string]any) error {
		var p vendorDeletionPayload
		return decodeStrict(d, vendorDeletionKeys, &p)
	},
}
