package repository

import (
	"context"

	"farmhith/models/contact"

	"gorm.io/gorm"
)

type ContactFilter struct {
	Status contact.Status
	Page
}

type ContactRepository interface {
	Create(ctx context.Context, m *contact.Message) error
	List(ctx context.Context, f ContactFilter) ([]contact.Message, int64, error)
	UpdateStatus(ctx context.Context, id string, status contact.Status) (*contact.Message, error)
}

type GormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(ctx context.Context, m *contact.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *GormContactRepository) List(ctx context.Context, f ContactFilter) ([]contact.Message, int64, error) {
	var (
		messages []contact.Message
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&contact.Message{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(q, f.Page).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *GormContactRepository) UpdateStatus(ctx context.Context, id string, status contact.Status) (*contact.Message, error) {
	res := r.db.WithContext(ctx).
		Model(&contact.Message{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var m contact.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}
