package sms

type SendRequest struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
}

type SendResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message,omitempty"`
}
