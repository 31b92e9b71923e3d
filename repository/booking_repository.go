package repository

import (
	"context"
	"strings"
	"time"

	"farmhith/models/booking"

	"gorm.io/gorm"
)

// BookingFilter narrows the admin booking list.
type BookingFilter struct {
	Status booking.BookingStatus
	Search string // tracking id, farmer name or mobile
	Page
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*booking.Booking, error)
	// GetByTrackingIDAndMobile only matches when both values belong to the same booking.
	GetByTrackingIDAndMobile(ctx context.Context, trackingID, mobile string) (*booking.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]booking.Booking, int64, error)
	// ListForUser returns bookings linked to userID or placed with mobile, newest first.
	ListForUser(ctx context.Context, userID, mobile string) ([]booking.Booking, error)
	// UpdateStatus saves the new statuses and the audit event in one transaction.
	UpdateStatus(ctx context.Context, b *booking.Booking, ev *booking.BookingStatusEvent) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[booking.BookingStatus]int64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByTrackingID(ctx context.Context, trackingID string) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "tracking_id = ?", trackingID).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByTrackingIDAndMobile(ctx context.Context, trackingID, mobile string) (*booking.Booking, error) {
	var b booking.Booking
	err := r.db.WithContext(ctx).
		Where("tracking_id = ? AND mobile = ?", trackingID, mobile).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// likeEscaper makes user search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *GormBookingRepository) List(ctx context.Context, f BookingFilter) ([]booking.Booking, int64, error) {
	var (
		bookings []booking.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&booking.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(f.Search) + "%"
		q = q.Where("tracking_id LIKE ? ESCAPE '!' OR farmer_name LIKE ? ESCAPE '!' OR mobile LIKE ? ESCAPE '!'", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(q, f.Page).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *GormBookingRepository) ListForUser(ctx context.Context, userID, mobile string) ([]booking.Booking, error) {
	var bookings []booking.Booking
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if mobile != "" {
		q = q.Or("mobile = ?", mobile)
	}
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, ev *booking.BookingStatusEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&booking.Booking{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"status":         b.Status,
				"payment_status": b.PaymentStatus,
				"updated_at":     time.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(ev).Error
	})
}

func (r *GormBookingRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[booking.BookingStatus]int64, error) {
	var rows []struct {
		Status booking.BookingStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[booking.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
