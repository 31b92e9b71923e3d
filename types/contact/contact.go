package contact

// ContactMessageRequest is the contact form payload.
type ContactMessageRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"in_mobile"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"min=10,max=1000"`
}

func (ContactMessageRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.required":    "Name is required",
		"name.max":         "Name too long",
		"email":            "Invalid email address",
		"phone":            "Invalid phone number",
		"subject.required": "Subject is required",
		"subject.max":      "Subject too long",
		"message.min":      "Message must be at least 10 characters",
		"message.max":      "Message too long (max 1000 characters)",
	}
}

type UpdateContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
}
