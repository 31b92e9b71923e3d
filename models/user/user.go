package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an authenticated identity: admins sign in with email+password, farmers with phone OTP.
type User struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email         *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Phone         *string `gorm:"type:varchar(20);uniqueIndex" json:"phone,omitempty"`
	PhoneVerified bool    `gorm:"default:false" json:"phone_verified"`
	PasswordHash  string  `gorm:"type:varchar(255)" json:"-"`
	Role          string  `gorm:"type:varchar(20);not null;default:farmer" json:"role"`

	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PhoneNumber returns the verified phone or "".
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
