package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"farmhith/logger"
	"farmhith/models/otp"
	"farmhith/repository"
)

const (
	// DefaultTTL is how long a code stays valid.
	DefaultTTL        = 5 * time.Minute
	DefaultMaxRetries = 3
)

var (
	ErrOTPActive = errors.New("an OTP for this phone number is still active. Please wait until it expires or use the existing OTP")
	ErrNoOTP     = errors.New("no OTP was requested for this phone number")
	ErrExpired   = errors.New("OTP has expired")
)

// BlockedError is returned while a phone is blocked after too many wrong codes.
type BlockedError struct {
	Until *time.Time
}

func (e *BlockedError) Error() string {
	if e.Until == nil {
		return "OTP verification is blocked permanently due to too many failed attempts"
	}
	return fmt.Sprintf("OTP verification is blocked until %s due to too many failed attempts", e.Until.Format("15:04:05"))
}

// InvalidCodeError is a wrong code. Remaining is zero once the OTP has been blocked.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	if e.Remaining <= 0 {
		return "invalid OTP. Maximum attempts exceeded. OTP is now blocked"
	}
	return fmt.Sprintf("invalid OTP. %d attempts remaining", e.Remaining)
}

// Sender delivers a code to a phone.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// Service handles OTP operations
type Service struct {
	repo     repository.OTPRepository
	sender   Sender
	now      func() time.Time
	generate func() (string, error)
	ttl      time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(repo repository.OTPRepository, sender Sender) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		now:      time.Now,
		generate: GenerateOTP,
		ttl:      DefaultTTL,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.now = clock
	return s
}

// WithGenerator replaces the code generator.
func (s *Service) WithGenerator(gen func() (string, error)) *Service {
	s.generate = gen
	return s
}

// GenerateOTP generates a random 6-digit OTP
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// HashCode is the stored form of a code. The phone salts it so equal codes differ per phone.
func HashCode(phone, code string) string {
	sum := sha256.Sum256([]byte(phone + ":" + code))
	return hex.EncodeToString(sum[:])
}

// SendOTP creates, stores and delivers a new code. It refuses while an earlier code is still
// valid or while the phone is blocked.
func (s *Service) SendOTP(ctx context.Context, phone string, purpose otp.OTPPurpose) (*otp.OTP, error) {
	now := s.now()

	latest, err := s.repo.Latest(ctx, phone, purpose)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing OTP: %w", err)
	}
	if latest != nil {
		if latest.IsCurrentlyBlocked(now) {
			return nil, &BlockedError{Until: latest.BlockedUntil}
		}
		if latest.IsValid(now) {
			return nil, ErrOTPActive
		}
	}

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	record := &otp.OTP{
		Phone:      phone,
		CodeHash:   HashCode(phone, code),
		Purpose:    purpose,
		MaxRetries: DefaultMaxRetries,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.repo.Issue(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create OTP record: %w", err)
	}

	// a failed delivery leaves the stored code valid
	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		logger.Error(fmt.Sprintf("Failed to send OTP SMS to %s", phone), err)
	} else {
		logger.Infow("OTP sent", "phone", phone, "purpose", string(purpose))
	}

	return record, nil
}

// VerifyOTP checks code against the newest unused OTP. A wrong code counts as a retry and
// the OTP is blocked once retries run out.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string, purpose otp.OTPPurpose) (*otp.OTP, error) {
	now := s.now()

	record, err := s.repo.LatestUnused(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOTP
		}
		return nil, fmt.Errorf("failed to find OTP record: %w", err)
	}

	if record.IsBlocked && !record.IsCurrentlyBlocked(now) {
		if _, err := s.repo.ReleaseExpiredBlock(ctx, record.ID, now); err != nil {
			return record, fmt.Errorf("failed to release OTP block: %w", err)
		}
		record.Reset()
	}
	if record.IsCurrentlyBlocked(now) {
		return record, &BlockedError{Until: record.BlockedUntil}
	}
	if record.IsExpired(now) {
		return record, ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(record.CodeHash), []byte(HashCode(phone, code))) != 1 {
		updated, err := s.repo.RecordFailure(ctx, record.ID, now)
		if errors.Is(err, repository.ErrNotFound) {
			return s.settledOTP(ctx, record, now)
		}
		if err != nil {
			return record, fmt.Errorf("failed to update retry count: %w", err)
		}
		logger.Warnw("Invalid OTP attempt", "phone", phone, "retryCount", updated.RetryCount)
		return updated, &InvalidCodeError{Remaining: updated.MaxRetries - updated.RetryCount}
	}

	used, err := s.repo.MarkUsed(ctx, record.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.settledOTP(ctx, record, now)
	}
	if err != nil {
		return record, fmt.Errorf("failed to mark OTP as used: %w", err)
	}
	return used, nil
}

// settledOTP explains why a concurrent attempt already consumed or blocked record.
func (s *Service) settledOTP(ctx context.Context, record *otp.OTP, now time.Time) (*otp.OTP, error) {
	latest, err := s.repo.Latest(ctx, record.Phone, record.Purpose)
	if err != nil || latest.ID != record.ID {
		return record, ErrNoOTP
	}
	if latest.IsCurrentlyBlocked(now) {
		return latest, &BlockedError{Until: latest.BlockedUntil}
	}
	return latest, ErrNoOTP
}

// OTPRetryInfo contains information about OTP retry status
type OTPRetryInfo struct {
	CanRequestNewOTP bool       `json:"can_request_new_otp"`
	CanRetryOTP      bool       `json:"can_retry_otp"`
	IsBlocked        bool       `json:"is_blocked"`
	RemainingRetries int        `json:"remaining_retries"`
	BlockedUntil     *time.Time `json:"blocked_until,omitempty"`
	Message          string     `json:"message"`
}

// GetOTPRetryInfo returns retry information for a phone number and purpose
func (s *Service) GetOTPRetryInfo(ctx context.Context, phone string, purpose otp.OTPPurpose) (*OTPRetryInfo, error) {
	now := s.now()

	record, err := s.repo.Latest(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &OTPRetryInfo{
				CanRequestNewOTP: true,
				RemainingRetries: DefaultMaxRetries,
				Message:          "You can request a new OTP",
			}, nil
		}
		return nil, fmt.Errorf("failed to find OTP record: %w", err)
	}

	info := &OTPRetryInfo{
		CanRequestNewOTP: !record.IsCurrentlyBlocked(now) && (record.IsUsed || record.IsExpired(now)),
		CanRetryOTP:      record.CanRetry(now),
		IsBlocked:        record.IsCurrentlyBlocked(now),
		RemainingRetries: record.MaxRetries - record.RetryCount,
		BlockedUntil:     record.BlockedUntil,
	}

	switch {
	case info.IsBlocked:
		info.Message = (&BlockedError{Until: info.BlockedUntil}).Error()
	case info.CanRetryOTP:
		info.Message = fmt.Sprintf("You have %d attempts remaining", info.RemainingRetries)
	case info.CanRequestNewOTP:
		info.Message = "You can request a new OTP"
	default:
		info.Message = "Current OTP is still valid"
	}
	return info, nil
}

// UnblockOTP manually unblocks the newest OTP for a phone number and purpose (admin function)
func (s *Service) UnblockOTP(ctx context.Context, phone string, purpose otp.OTPPurpose) error {
	record, err := s.repo.Latest(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no OTP found for phone %s", phone)
		}
		return fmt.Errorf("failed to find OTP: %w", err)
	}
	if !record.IsBlocked {
		return fmt.Errorf("no blocked OTP found for phone %s", phone)
	}

	record.Reset()
	if err := s.repo.Save(ctx, record, otp.EventUnblocked); err != nil {
		return fmt.Errorf("failed to unblock OTP: %w", err)
	}
	return nil
}

// CleanupExpiredBlocks resets OTPs whose block period has passed.
func (s *Service) CleanupExpiredBlocks(ctx context.Context) (int, error) {
	expired, err := s.repo.ListBlockedBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to find expired blocks: %w", err)
	}

	reset := 0
	for i := range expired {
		expired[i].Reset()
		if err := s.repo.Save(ctx, &expired[i], otp.EventUnblocked); err != nil {
			logger.Error(fmt.Sprintf("Failed to reset expired block for OTP ID %d", expired[i].ID), err)
			continue
		}
		reset++
	}
	return reset, nil
}

// CleanupExpiredOTPs removes expired, unblocked OTP records.
func (s *Service) CleanupExpiredOTPs(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
