package user

import (
	"time"
)

// Profile is the optional farmer profile, one per user.
type Profile struct {
	UserID   string  `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	FullName *string `gorm:"type:varchar(100)" json:"full_name,omitempty"`
	// Always copied from the session's user, never from request input.
	Phone       string  `gorm:"type:varchar(20);not null" json:"phone"`
	Email       *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Village     *string `gorm:"type:varchar(100)" json:"village,omitempty"`
	District    *string `gorm:"type:varchar(100)" json:"district,omitempty"`
	State       *string `gorm:"type:varchar(100)" json:"state,omitempty"`
	Address     *string `gorm:"type:text" json:"address,omitempty"`
	FarmDetails *string `gorm:"type:text" json:"farm_details,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
