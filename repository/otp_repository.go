package repository

import (
	"context"
	"time"

	"farmhith/models/otp"

	"gorm.io/gorm"
)

type OTPRepository interface {
	// Latest returns the newest OTP for phone and purpose, used or not.
	Latest(ctx context.Context, phone string, purpose otp.OTPPurpose) (*otp.OTP, error)
	// LatestUnused returns the newest OTP that has not been consumed.
	LatestUnused(ctx context.Context, phone string, purpose otp.OTPPurpose) (*otp.OTP, error)
	// Issue marks older unused codes as used, inserts o and records a "sent" event.
	Issue(ctx context.Context, o *otp.OTP) error
	// Save persists o and snapshots it into otp_events as eventType.
	Save(ctx context.Context, o *otp.OTP, eventType string) error
	// RecordFailure counts one wrong guess against an unused, unblocked OTP with retries
	// left, blocking it when the last retry is spent. It returns ErrNotFound when no such
	// OTP exists, so concurrent guesses can never exceed MaxRetries.
	RecordFailure(ctx context.Context, id uint, at time.Time) (*otp.OTP, error)
	// MarkUsed consumes an unused, unblocked OTP. Only one caller can win; the rest get ErrNotFound.
	MarkUsed(ctx context.Context, id uint) (*otp.OTP, error)
	// ReleaseExpiredBlock clears a block whose time has passed. It reports whether a row changed.
	ReleaseExpiredBlock(ctx context.Context, id uint, now time.Time) (bool, error)
	ListBlockedBefore(ctx context.Context, t time.Time) ([]otp.OTP, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type GormOTPRepository struct {
	db *gorm.DB
}

func NewGormOTPRepository(db *gorm.DB) *GormOTPRepository {
	return &GormOTPRepository{db: db}
}

func (r *GormOTPRepository) Latest(ctx context.Context, phone string, purpose otp.OTPPurpose) (*otp.OTP, error) {
	var o otp.OTP
	err := r.db.WithContext(ctx).
		Where("phone = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC, id DESC").
		First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOTPRepository) LatestUnused(ctx context.Context, phone string, purpose otp.OTPPurpose) (*otp.OTP, error) {
	var o otp.OTP
	err := r.db.WithContext(ctx).
		Where("phone = ? AND purpose = ? AND is_used = ?", phone, purpose, false).
		Order("created_at DESC, id DESC").
		First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOTPRepository) Issue(ctx context.Context, o *otp.OTP) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&otp.OTP{}).
			Where("phone = ? AND purpose = ? AND is_used = ?", o.Phone, o.Purpose, false).
			Update("is_used", true).Error
		if err != nil {
			return err
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return snapshotEvent(tx, o, otp.EventSent)
	})
}

func (r *GormOTPRepository) Save(ctx context.Context, o *otp.OTP, eventType string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(o).Error; err != nil {
			return err
		}
		return snapshotEvent(tx, o, eventType)
	})
}

func (r *GormOTPRepository) RecordFailure(ctx context.Context, id uint, at time.Time) (*otp.OTP, error) {
	var o otp.OTP
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&otp.OTP{}).
			Where("id = ? AND is_used = ? AND is_blocked = ? AND retry_count < max_retries", id, false, false).
			Updates(map[string]any{
				"retry_count":     gorm.Expr("retry_count + 1"),
				"last_attempt_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}

		eventType := otp.EventFailed
		if o.RetryCount >= o.MaxRetries {
			until := at.Add(otp.BlockDuration)
			err := tx.Model(&otp.OTP{}).
				Where("id = ?", id).
				Updates(map[string]any{"is_blocked": true, "blocked_until": until}).Error
			if err != nil {
				return err
			}
			o.IsBlocked = true
			o.BlockedUntil = &until
			eventType = otp.EventBlocked
		}
		return snapshotEvent(tx, &o, eventType)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOTPRepository) MarkUsed(ctx context.Context, id uint) (*otp.OTP, error) {
	var o otp.OTP
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&otp.OTP{}).
			Where("id = ? AND is_used = ? AND is_blocked = ?", id, false, false).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}
		return snapshotEvent(tx, &o, otp.EventVerified)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOTPRepository) ReleaseExpiredBlock(ctx context.Context, id uint, now time.Time) (bool, error) {
	released := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&otp.OTP{}).
			Where("id = ? AND is_blocked = ? AND blocked_until IS NOT NULL AND blocked_until < ?", id, true, now).
			Updates(map[string]any{
				"is_blocked":      false,
				"blocked_until":   nil,
				"retry_count":     0,
				"last_attempt_at": nil,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		released = true
		var o otp.OTP
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}
		return snapshotEvent(tx, &o, otp.EventUnblocked)
	})
	return released, err
}

func (r *GormOTPRepository) ListBlockedBefore(ctx context.Context, t time.Time) ([]otp.OTP, error) {
	var out []otp.OTP
	err := r.db.WithContext(ctx).
		Where("is_blocked = ? AND blocked_until IS NOT NULL AND blocked_until < ?", true, t).
		Find(&out).Error
	return out, err
}

func (r *GormOTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? AND is_blocked = ?", before, false).
		Delete(&otp.OTP{})
	return res.RowsAffected, res.Error
}

// snapshotEvent writes the audit row for o. The code hash is never copied.
func snapshotEvent(tx *gorm.DB, o *otp.OTP, eventType string) error {
	ev := otp.OTPEvent{
		OTPID:      o.ID,
		Phone:      o.Phone,
		Purpose:    o.Purpose,
		RetryCount: o.RetryCount,
		IsBlocked:  o.IsBlocked,
		EventType:  eventType,
	}
	return tx.Create(&ev).Error
}
