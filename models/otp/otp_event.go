package otp

import (
	"time"
)

// OTPEvent is an audit row for the OTP lifecycle. It never holds the code.
type OTPEvent struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OTPID      uint       `gorm:"column:otp_id;not null;index" json:"otp_id"`
	Phone      string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	Purpose    OTPPurpose `gorm:"type:varchar(50);not null" json:"purpose"`
	RetryCount int        `json:"retry_count"`
	IsBlocked  bool       `json:"is_blocked"`
	EventType  string     `gorm:"type:varchar(50);not null" json:"event_type"` // sent, verified, failed, blocked, unblocked
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

const (
	EventSent      = "sent"
	EventVerified  = "verified"
	EventFailed    = "failed"
	EventBlocked   = "blocked"
	EventUnblocked = "unblocked"
)
