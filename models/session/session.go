package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session backs a pair of access/refresh tokens. Signing out sets RevokedAt.
type Session struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	RefreshTokenHash string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt        time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt        *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	UserAgent        string     `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the session is neither revoked nor expired at t.
func (s *Session) IsActive(t time.Time) bool {
	return s.RevokedAt == nil && t.Before(s.ExpiresAt)
}
