// Package booking submits soil test bookings and serves their lookups and admin views.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmhith/apperrors"
	"farmhith/logger"
	bookingModel "farmhith/models/booking"
	"farmhith/repository"
	bookingTypes "farmhith/types/booking"
	"farmhith/utils"
	"farmhith/validation"

	"github.com/jinzhu/now"
)

type Service struct {
	repo repository.BookingRepository
	now  func() time.Time
}

func NewService(repo repository.BookingRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for summaries.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.now = clock
	return s
}

// SubmitBooking validates data and inserts a new booking. userID links the booking to a
// signed-in farmer and may be nil.
func (s *Service) SubmitBooking(ctx context.Context, data bookingTypes.BookingSubmissionRequest, userID *string) (*bookingModel.Booking, error) {
	data = trimSubmission(data)
	if err := validation.Struct(data).Err(); err != nil {
		logger.Warnw("Booking validation failed", "trackingId", data.TrackingID, "error", err.Error())
		return nil, err
	}

	b := &bookingModel.Booking{
		TrackingID:    data.TrackingID,
		PackageID:     data.PackageID,
		FarmerName:    data.FarmerName,
		Mobile:        data.Mobile,
		Village:       data.Village,
		District:      data.District,
		State:         data.State,
		CropType:      data.CropType,
		PickupType:    bookingModel.PickupType(data.PickupType),
		PaymentMethod: bookingModel.PaymentMethod(data.PaymentMethod),
		PaymentStatus: bookingModel.PaymentStatusPending,
		Status:        bookingModel.BookingStatusPending,
		UserID:        userID,
	}
	// the address only means something for farm pickup
	if b.PickupType == bookingModel.PickupTypePickup {
		addr := data.Address
		b.Address = &addr
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = fmt.Errorf("tracking ID %s is already in use", b.TrackingID)
		}
		logger.Errorw("Error submitting booking", "trackingId", b.TrackingID, "error", err.Error())
		return nil, apperrors.OperationFailed("submit booking", err)
	}

	logger.Infow("Booking submitted successfully", "trackingId", b.TrackingID, "bookingId", b.ID)
	return b, nil
}

func trimSubmission(data bookingTypes.BookingSubmissionRequest) bookingTypes.BookingSubmissionRequest {
	for _, f := range []*string{
		&data.PackageID, &data.TrackingID, &data.FarmerName, &data.Mobile, &data.Village,
		&data.District, &data.State, &data.CropType, &data.PickupType, &data.Address, &data.PaymentMethod,
	} {
		*f = strings.TrimSpace(*f)
	}
	return data
}

// GetBookingByTrackingID returns the booking only when both tracking id and mobile match.
func (s *Service) GetBookingByTrackingID(ctx context.Context, trackingID, mobile string) (*bookingModel.Booking, error) {
	req := bookingTypes.BookingLookupRequest{TrackingID: strings.TrimSpace(trackingID), Mobile: strings.TrimSpace(mobile)}
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByTrackingIDAndMobile(ctx, req.TrackingID, req.Mobile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warnw("Booking lookup did not match", "trackingId", req.TrackingID)
			return nil, apperrors.NewNotFound("Booking not found or invalid credentials.")
		}
		logger.Errorw("Error fetching booking", "trackingId", req.TrackingID, "error", err.Error())
		return nil, apperrors.OperationFailed("fetch booking", err)
	}
	return b, nil
}

// ListBookings is the admin booking list.
func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilter) ([]bookingModel.Booking, int64, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, validation.Var("status", string(f.Status), "oneof=pending confirmed sample_collected in_lab completed cancelled", map[string]string{"status": "Invalid booking status"}).Err()
	}

	bookings, total, err := s.repo.List(ctx, f)
	if err != nil {
		logger.Errorw("Error listing bookings", "error", err.Error())
		return nil, 0, apperrors.OperationFailed("list bookings", err)
	}
	return bookings, total, nil
}

// UpdateBookingStatus changes status (and optionally payment status) and records who did it.
// Completed and cancelled bookings are final.
func (s *Service) UpdateBookingStatus(ctx context.Context, id string, req bookingTypes.UpdateBookingStatusRequest, actorID string) (*bookingModel.Booking, error) {
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Booking not found.")
		}
		return nil, apperrors.OperationFailed("update booking", err)
	}

	next := bookingModel.BookingStatus(req.Status)
	if b.Status.IsFinal() && next != b.Status {
		return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{{
			Field:   "status",
			Message: fmt.Sprintf("Booking is already %s", b.Status),
		}}}
	}

	ev := &bookingModel.BookingStatusEvent{
		BookingID:         b.ID,
		FromStatus:        b.Status,
		ToStatus:          next,
		FromPaymentStatus: b.PaymentStatus,
		ToPaymentStatus:   b.PaymentStatus,
		CreatedBy:         actorID,
	}
	b.Status = next
	if req.PaymentStatus != "" {
		b.PaymentStatus = bookingModel.PaymentStatus(req.PaymentStatus)
		ev.ToPaymentStatus = b.PaymentStatus
	}

	if err := s.repo.UpdateStatus(ctx, b, ev); err != nil {
		logger.Errorw("Error updating booking status", "bookingId", id, "error", err.Error())
		return nil, apperrors.OperationFailed("update booking", err)
	}

	logger.Infow("Booking status updated", "bookingId", b.ID, "trackingId", b.TrackingID, "status", string(b.Status), "by", actorID)
	return b, nil
}

// Summary is the admin dashboard header.
type Summary struct {
	Today     int64                                `json:"today"`
	ThisWeek  int64                                `json:"this_week"`
	ThisMonth int64                                `json:"this_month"`
	Total     int64                                `json:"total"`
	ByStatus  map[bookingModel.BookingStatus]int64 `json:"by_status"`
}

func (s *Service) BookingsSummary(ctx context.Context) (*Summary, error) {
	t := now.With(s.now())

	var (
		summary Summary
		err     error
	)
	if summary.Today, err = s.repo.CountCreatedBetween(ctx, t.BeginningOfDay(), t.EndOfDay()); err != nil {
		return nil, apperrors.OperationFailed("summarize bookings", err)
	}
	if summary.ThisWeek, err = s.repo.CountCreatedBetween(ctx, t.BeginningOfWeek(), t.EndOfWeek()); err != nil {
		return nil, apperrors.OperationFailed("summarize bookings", err)
	}
	if summary.ThisMonth, err = s.repo.CountCreatedBetween(ctx, t.BeginningOfMonth(), t.EndOfMonth()); err != nil {
		return nil, apperrors.OperationFailed("summarize bookings", err)
	}
	if summary.ByStatus, err = s.repo.CountByStatus(ctx); err != nil {
		return nil, apperrors.OperationFailed("summarize bookings", err)
	}
	for _, n := range summary.ByStatus {
		summary.Total += n
	}
	return &summary, nil
}

// ListForUser returns the bookings of a signed-in farmer: those linked to the account and
// those placed with the account's phone before signing in.
func (s *Service) ListForUser(ctx context.Context, userID, phone string) ([]bookingModel.Booking, error) {
	bookings, err := s.repo.ListForUser(ctx, userID, utils.LocalMobile(phone))
	if err != nil {
		logger.Errorw("Error fetching user bookings", "userId", userID, "error", err.Error())
		return nil, apperrors.OperationFailed("fetch your bookings", err)
	}
	return bookings, nil
}

// ListAll returns every booking, newest first, for export.
func (s *Service) ListAll(ctx context.Context, f repository.BookingFilter) ([]bookingModel.Booking, error) {
	f.Page = repository.Page{}
	bookings, _, err := s.ListBookings(ctx, f)
	return bookings, err
}
