package repository

import (
	"context"
	"errors"

	"farmhith/models/report"

	"gorm.io/gorm"
)

type ReportFilter struct {
	Status report.Status
	Page
}

type ReportRepository interface {
	GetByTrackingID(ctx context.Context, trackingID string) (*report.SoilReport, error)
	List(ctx context.Context, f ReportFilter) ([]report.SoilReport, int64, error)
	// Upsert inserts r or overwrites the existing row with the same tracking id.
	Upsert(ctx context.Context, r *report.SoilReport) error
}

type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) GetByTrackingID(ctx context.Context, trackingID string) (*report.SoilReport, error) {
	var rep report.SoilReport
	if err := r.db.WithContext(ctx).First(&rep, "tracking_id = ?", trackingID).Error; err != nil {
		return nil, translate(err)
	}
	return &rep, nil
}

func (r *GormReportRepository) List(ctx context.Context, f ReportFilter) ([]report.SoilReport, int64, error) {
	var (
		reports []report.SoilReport
		total   int64
	)

	q := r.db.WithContext(ctx).Model(&report.SoilReport{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(q, f.Page).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *GormReportRepository) Upsert(ctx context.Context, rep *report.SoilReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing report.SoilReport
		err := tx.First(&existing, "tracking_id = ?", rep.TrackingID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return translate(tx.Create(rep).Error)
		case err != nil:
			return err
		}

		rep.ID = existing.ID
		rep.CreatedAt = existing.CreatedAt
		return tx.Save(rep).Error
	})
}
