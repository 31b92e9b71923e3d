package booking

// BookingSubmissionRequest is the payload handed over by the wizard (or posted directly).
// Status and payment status are not accepted from clients; new bookings always start pending.
type BookingSubmissionRequest struct {
	PackageID     string `json:"package_id" validate:"required,catalog_package"`
	TrackingID    string `json:"tracking_id" validate:"required,max=32"`
	FarmerName    string `json:"farmer_name" validate:"required,max=100"`
	Mobile        string `json:"mobile" validate:"in_mobile"`
	Village       string `json:"village" validate:"required,max=100"`
	District      string `json:"district" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=100"`
	CropType      string `json:"crop_type" validate:"required,max=100"`
	PickupType    string `json:"pickup_type" validate:"oneof=pickup drop"`
	Address       string `json:"address,omitempty" validate:"required_if=PickupType pickup,max=500"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=online cod"`
}

func (BookingSubmissionRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"package_id.required":        "Package ID is required",
		"package_id.catalog_package": "Unknown service package",
		"tracking_id.required":       "Tracking ID is required",
		"farmer_name.required":       "Farmer name is required",
		"farmer_name.max":            "Farmer name too long",
		"mobile":                     "Invalid mobile number (10 digits starting with 6-9)",
		"village.required":           "Village is required",
		"village.max":                "Village name too long",
		"district.required":          "District is required",
		"district.max":               "District name too long",
		"state.required":             "State is required",
		"state.max":                  "State name too long",
		"crop_type.required":         "Crop type is required",
		"crop_type.max":              "Crop type too long",
		"pickup_type":                "Invalid pickup type",
		"address.required_if":        "Address is required for farm pickup",
		"address.max":                "Address too long",
		"payment_method.required":    "Payment method is required",
		"payment_method.oneof":       "Invalid payment method",
	}
}

// BookingLookupRequest identifies a booking by tracking ID plus the mobile it was booked with.
type BookingLookupRequest struct {
	TrackingID string `json:"tracking_id" validate:"required"`
	Mobile     string `json:"mobile" validate:"in_mobile"`
}

func (BookingLookupRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"tracking_id": "Tracking ID is required",
		"mobile":      "Invalid mobile number",
	}
}

// UpdateBookingStatusRequest is the admin status change payload.
type UpdateBookingStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending confirmed sample_collected in_lab completed cancelled"`
	PaymentStatus string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
}
