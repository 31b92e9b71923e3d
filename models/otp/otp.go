package otp

import (
	"time"
)

// OTP is a one-time code sent to a phone. Only a hash of the code is stored.
type OTP struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone         string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	CodeHash      string     `gorm:"type:varchar(64);not null" json:"-"`
	Purpose       OTPPurpose `gorm:"type:varchar(50);not null" json:"purpose"`
	IsUsed        bool       `gorm:"default:false" json:"is_used"`
	RetryCount    int        `gorm:"default:0" json:"retry_count"`
	MaxRetries    int        `gorm:"default:3" json:"max_retries"`
	IsBlocked     bool       `gorm:"default:false" json:"is_blocked"`
	BlockedUntil  *time.Time `gorm:"index" json:"blocked_until,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type OTPPurpose string

const (
	OTPPurposeLogin OTPPurpose = "login"
)

// BlockDuration is how long verification stays blocked after MaxRetries failures.
const BlockDuration = 15 * time.Minute

func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsValid checks the OTP is unused, unexpired and not blocked.
func (o *OTP) IsValid(now time.Time) bool {
	return !o.IsUsed && !o.IsExpired(now) && !o.IsCurrentlyBlocked(now)
}

// IsCurrentlyBlocked treats a nil BlockedUntil on a blocked OTP as permanent.
func (o *OTP) IsCurrentlyBlocked(now time.Time) bool {
	if !o.IsBlocked {
		return false
	}
	if o.BlockedUntil == nil {
		return true
	}
	return !now.After(*o.BlockedUntil)
}

func (o *OTP) CanRetry(now time.Time) bool {
	return !o.IsUsed && !o.IsExpired(now) && !o.IsCurrentlyBlocked(now) && o.RetryCount < o.MaxRetries
}

// Reset clears the retry state (admin unblock).
func (o *OTP) Reset() {
	o.RetryCount = 0
	o.IsBlocked = false
	o.BlockedUntil = nil
	o.LastAttemptAt = nil
}
