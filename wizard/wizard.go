// Package wizard is the four-step booking flow: package, farmer details, collection method,
// payment and summary. Its state is plain data so it can live in a browser session.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farmhith/apperrors"
	"farmhith/constants"
	bookingModel "farmhith/models/booking"
	bookingTypes "farmhith/types/booking"
)

type Step int

const (
	StepPackage    Step = 1
	StepFarmer     Step = 2
	StepCollection Step = 3
	StepPayment    Step = 4
	StepComplete   Step = 5
)

// BookingSubmitter persists the finished wizard. The booking service satisfies it.
type BookingSubmitter interface {
	SubmitBooking(ctx context.Context, data bookingTypes.BookingSubmissionRequest, userID *string) (*bookingModel.Booking, error)
}

// Data is everything the farmer has entered so far.
type Data struct {
	PackageID     string `json:"package_id"`
	FarmerName    string `json:"farmer_name"`
	Mobile        string `json:"mobile"`
	Village       string `json:"village"`
	District      string `json:"district"`
	State         string `json:"state"`
	CropType      string `json:"crop_type"`
	PickupType    string `json:"pickup_type"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

type Wizard struct {
	Step       Step                  `json:"step"`
	TrackingID string                `json:"tracking_id"`
	Data       Data                  `json:"data"`
	Booking    *bookingModel.Booking `json:"booking,omitempty"`
}

// Summary is shown on the payment step and after completion.
type Summary struct {
	PackageID      string `json:"package_id"`
	PackageName    string `json:"package_name"`
	Price          int    `json:"price"`
	TurnaroundDays int    `json:"turnaround_days"`
}

// GenerateTrackingID returns "FH" followed by the last 8 digits of t in milliseconds.
func GenerateTrackingID(t time.Time) string {
	return fmt.Sprintf("FH%08d", t.UnixMilli()%100000000)
}

// New starts a wizard at step 1 with pickup and online payment preselected.
func New(now time.Time) *Wizard {
	return &Wizard{
		Step:       StepPackage,
		TrackingID: GenerateTrackingID(now),
		Data: Data{
			PickupType:    string(bookingModel.PickupTypePickup),
			PaymentMethod: string(bookingModel.PaymentMethodOnline),
		},
	}
}

// Load restores a wizard saved with Marshal.
func Load(raw []byte) (*Wizard, error) {
	var w Wizard
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode wizard: %w", err)
	}
	if w.Step < StepPackage || w.Step > StepComplete || w.TrackingID == "" {
		return nil, fmt.Errorf("decode wizard: invalid state")
	}
	return &w, nil
}

func (w *Wizard) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

func (w *Wizard) IsComplete() bool {
	return w.Step == StepComplete
}

// SetField updates one field by its JSON name. A completed wizard is read-only.
func (w *Wizard) SetField(name, value string) error {
	if w.IsComplete() {
		return fieldError(name, "Booking already submitted")
	}

	value = strings.TrimSpace(value)
	switch name {
	case "package_id":
		if _, ok := constants.FindPackage(value); !ok && value != "" {
			return fieldError(name, "Unknown service package")
		}
		w.Data.PackageID = value
	case "farmer_name":
		w.Data.FarmerName = value
	case "mobile":
		w.Data.Mobile = value
	case "village":
		w.Data.Village = value
	case "district":
		w.Data.District = value
	case "state":
		w.Data.State = value
	case "crop_type":
		w.Data.CropType = value
	case "pickup_type":
		if value != string(bookingModel.PickupTypePickup) && value != string(bookingModel.PickupTypeDrop) {
			return fieldError(name, "Invalid pickup type")
		}
		w.Data.PickupType = value
	case "address":
		w.Data.Address = value
	case "payment_method":
		if value != string(bookingModel.PaymentMethodOnline) && value != string(bookingModel.PaymentMethodCOD) {
			return fieldError(name, "Invalid payment method")
		}
		w.Data.PaymentMethod = value
	default:
		return fieldError(name, "Unknown field")
	}
	return nil
}

// SetFields applies updates in a stable order and reports every rejected field.
func (w *Wizard) SetFields(fields map[string]string) error {
	var errs []apperrors.FieldError
	for _, name := range fieldOrder {
		if v, ok := fields[name]; ok {
			if err := w.SetField(name, v); err != nil {
				errs = append(errs, err.(*apperrors.ValidationError).Fields...)
			}
		}
	}
	for name := range fields {
		if !knownField(name) {
			errs = append(errs, apperrors.FieldError{Field: name, Message: "Unknown field"})
		}
	}
	if len(errs) > 0 {
		return &apperrors.ValidationError{Fields: errs}
	}
	return nil
}

var fieldOrder = []string{
	"package_id", "farmer_name", "mobile", "village", "district", "state",
	"crop_type", "pickup_type", "address", "payment_method",
}

func knownField(name string) bool {
	for _, f := range fieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// Missing lists the fields still needed by the current step and every step before it.
func (w *Wizard) Missing() []apperrors.FieldError {
	var missing []apperrors.FieldError
	need := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, apperrors.FieldError{Field: field, Message: msg})
		}
	}

	if w.Step >= StepPackage {
		need("package_id", w.Data.PackageID, "Please select a package")
	}
	if w.Step >= StepFarmer {
		need("farmer_name", w.Data.FarmerName, "Farmer name is required")
		need("mobile", w.Data.Mobile, "Mobile number is required")
		need("village", w.Data.Village, "Village is required")
		need("district", w.Data.District, "District is required")
		need("state", w.Data.State, "State is required")
		need("crop_type", w.Data.CropType, "Crop type is required")
	}
	if w.Step >= StepCollection && w.Data.PickupType == string(bookingModel.PickupTypePickup) {
		need("address", w.Data.Address, "Address is required for farm pickup")
	}
	return missing
}

func (w *Wizard) CanProceed() bool {
	return !w.IsComplete() && len(w.Missing()) == 0
}

// Next moves forward one step, stopping at the payment step. It fails with the missing
// fields when the current step is incomplete.
func (w *Wizard) Next() error {
	if w.IsComplete() {
		return nil
	}
	if missing := w.Missing(); len(missing) > 0 {
		return &apperrors.ValidationError{Fields: missing}
	}
	if w.Step < StepPayment {
		w.Step++
	}
	return nil
}

// Back moves back one step, stopping at the first.
func (w *Wizard) Back() {
	if w.IsComplete() {
		return
	}
	if w.Step > StepPackage {
		w.Step--
	}
}

// Summary describes the chosen package; ok is false until one is chosen.
func (w *Wizard) Summary() (Summary, bool) {
	pkg, ok := constants.FindPackage(w.Data.PackageID)
	if !ok {
		return Summary{}, false
	}
	return Summary{
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		Price:          pkg.Price,
		TurnaroundDays: pkg.TurnaroundDays,
	}, true
}

// Request is the submission payload built from the wizard data.
func (w *Wizard) Request() bookingTypes.BookingSubmissionRequest {
	return bookingTypes.BookingSubmissionRequest{
		PackageID:     w.Data.PackageID,
		TrackingID:    w.TrackingID,
		FarmerName:    w.Data.FarmerName,
		Mobile:        w.Data.Mobile,
		Village:       w.Data.Village,
		District:      w.Data.District,
		State:         w.Data.State,
		CropType:      w.Data.CropType,
		PickupType:    w.Data.PickupType,
		Address:       w.Data.Address,
		PaymentMethod: w.Data.PaymentMethod,
	}
}

// Submit hands the data to s and completes the wizard only when s succeeds. On failure the
// wizard stays on the payment step. A completed wizard returns its booking again without
// calling s.
func (w *Wizard) Submit(ctx context.Context, s BookingSubmitter, userID *string) (*bookingModel.Booking, error) {
	if w.IsComplete() {
		return w.Booking, nil
	}
	if w.Step != StepPayment {
		return nil, fieldError("step", "Complete all steps before confirming the booking")
	}
	if missing := w.Missing(); len(missing) > 0 {
		return nil, &apperrors.ValidationError{Fields: missing}
	}

	b, err := s.SubmitBooking(ctx, w.Request(), userID)
	if err != nil {
		return nil, err
	}
	w.Booking = b
	w.Step = StepComplete
	return b, nil
}

func fieldError(field, msg string) error {
	return &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: field, Message: msg}}}
}
