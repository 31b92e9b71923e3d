package otp

// SendOTPRequest asks for a login code to be sent to phone.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"in_mobile"`
}

func (SendOTPRequest) ValidationMessages() map[string]string {
	return map[string]string{"phone": "Invalid mobile number (10 digits starting with 6-9)"}
}

// VerifyOTPRequest exchanges a code for a session.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"in_mobile"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

func (VerifyOTPRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"phone": "Invalid mobile number (10 digits starting with 6-9)",
		"otp":   "OTP must be 6 digits",
	}
}

// OTPResponse is returned after a code is sent.
type OTPResponse struct {
	Phone     string `json:"phone"`
	ExpiresAt string `json:"expires_at"`
}
