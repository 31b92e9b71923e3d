package repository

import (
	"context"
	"time"

	"farmhith/models/session"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	GetByID(ctx context.Context, id string) (*session.Session, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*session.Session, error)
	// Rotate replaces the refresh token hash and expiry of a live session.
	Rotate(ctx context.Context, id, newHash string, expiresAt time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, s *session.Session) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	var s session.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormSessionRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*session.Session, error) {
	var s session.Session
	if err := r.db.WithContext(ctx).First(&s, "refresh_token_hash = ?", hash).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormSessionRepository) Rotate(ctx context.Context, id, newHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&session.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]any{"refresh_token_hash": newHash, "expires_at": expiresAt})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&session.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}

func (r *GormSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", before, before).
		Delete(&session.Session{})
	return res.RowsAffected, res.Error
}
