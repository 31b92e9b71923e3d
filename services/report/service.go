// Package report serves soil report lookups and the admin report editor.
package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmhith/apperrors"
	"farmhith/logger"
	reportModel "farmhith/models/report"
	"farmhith/repository"
	"farmhith/services/advisor"
	reportTypes "farmhith/types/report"
	"farmhith/validation"
)

type Service struct {
	repo     repository.ReportRepository
	bookings repository.BookingRepository
	advisor  advisor.Advisor
	now      func() time.Time
}

func NewService(repo repository.ReportRepository, bookings repository.BookingRepository, adv advisor.Advisor) *Service {
	if adv == nil {
		adv = advisor.Disabled{}
	}
	return &Service{repo: repo, bookings: bookings, advisor: adv, now: time.Now}
}

// GetReportByTrackingID is the public report lookup.
func (s *Service) GetReportByTrackingID(ctx context.Context, trackingID string) (*reportModel.SoilReport, error) {
	trackingID = strings.TrimSpace(trackingID)
	if err := validation.Var("tracking_id", trackingID, "required", map[string]string{"tracking_id": "Tracking ID is required"}).Err(); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warnw("Report not found", "trackingId", trackingID)
			return nil, apperrors.NewNotFound("Report not found.")
		}
		logger.Errorw("Error fetching report", "trackingId", trackingID, "error", err.Error())
		return nil, apperrors.OperationFailed("fetch report", err)
	}
	return r, nil
}

func (s *Service) ListReports(ctx context.Context, f repository.ReportFilter) ([]reportModel.SoilReport, int64, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "status", Message: "Invalid report status"}}}
	}

	reports, total, err := s.repo.List(ctx, f)
	if err != nil {
		logger.Errorw("Error listing reports", "error", err.Error())
		return nil, 0, apperrors.OperationFailed("list reports", err)
	}
	return reports, total, nil
}

// UpsertReport creates or replaces the report for a tracking id. Results are only stored on
// completed reports, and a completed report must carry all of them.
func (s *Service) UpsertReport(ctx context.Context, req reportTypes.UpsertReportRequest) (*reportModel.SoilReport, error) {
	res := validation.Struct(req)
	status := reportModel.Status(req.Status)
	if status == reportModel.StatusCompleted {
		res = validation.Merge(res, requireResults(req))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}

	r := &reportModel.SoilReport{
		TrackingID:      strings.TrimSpace(req.TrackingID),
		Status:          status,
		Recommendations: strings.TrimSpace(req.Recommendations),
	}
	if req.PdfURL != "" {
		r.PdfURL = &req.PdfURL
	}
	if status == reportModel.StatusCompleted {
		completedAt := s.now()
		r.CompletedAt = &completedAt
		r.PHLevel, r.Nitrogen, r.Phosphorus, r.Potassium, r.OrganicCarbon =
			req.PHLevel, req.Nitrogen, req.Phosphorus, req.Potassium, req.OrganicCarbon

		if r.Recommendations == "" && req.DraftRecommendations {
			text, err := s.advisor.DraftRecommendations(ctx, r, s.cropFor(ctx, r.TrackingID))
			if err != nil {
				logger.Errorw("Error drafting recommendations", "trackingId", r.TrackingID, "error", err.Error())
				return nil, apperrors.OperationFailed("draft recommendations", err)
			}
			r.Recommendations = text
		}
	}

	if err := s.repo.Upsert(ctx, r); err != nil {
		logger.Errorw("Error saving report", "trackingId", r.TrackingID, "error", err.Error())
		return nil, apperrors.OperationFailed("save report", err)
	}

	logger.Infow("Report saved", "trackingId", r.TrackingID, "status", string(r.Status))
	return r, nil
}

// DraftRecommendations asks the advisor for text without saving it.
func (s *Service) DraftRecommendations(ctx context.Context, trackingID string) (string, error) {
	r, err := s.GetReportByTrackingID(ctx, trackingID)
	if err != nil {
		return "", err
	}
	if !r.HasResults() {
		return "", &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "tracking_id", Message: "Report has no results yet"}}}
	}

	text, err := s.advisor.DraftRecommendations(ctx, r, s.cropFor(ctx, r.TrackingID))
	if err != nil {
		logger.Errorw("Error drafting recommendations", "trackingId", r.TrackingID, "error", err.Error())
		return "", apperrors.OperationFailed("draft recommendations", err)
	}
	return text, nil
}

// cropFor returns the crop type of the matching booking, or "" when there is none.
func (s *Service) cropFor(ctx context.Context, trackingID string) string {
	if s.bookings == nil {
		return ""
	}
	b, err := s.bookings.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return ""
	}
	return b.CropType
}

func requireResults(req reportTypes.UpsertReportRequest) validation.Result {
	results := []struct {
		field string
		value *float64
	}{
		{"ph_level", req.PHLevel},
		{"nitrogen", req.Nitrogen},
		{"phosphorus", req.Phosphorus},
		{"potassium", req.Potassium},
		{"organic_carbon", req.OrganicCarbon},
	}

	var res validation.Result
	for _, r := range results {
		if r.value == nil {
			res.Errors = append(res.Errors, apperrors.FieldError{
				Field:   r.field,
				Message: "Completed reports need " + strings.ReplaceAll(r.field, "_", " "),
			})
		}
	}
	return res
}
