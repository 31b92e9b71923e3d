package auth

import "time"

// AdminCredentials is the admin password sign-in payload.
type AdminCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (AdminCredentials) ValidationMessages() map[string]string {
	return map[string]string{
		"email":    "Invalid email address",
		"password": "Password must be at least 6 characters",
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionUser is the public view of the signed-in user.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// SessionResponse is returned by every sign-in style call.
type SessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         SessionUser `json:"user"`
}
