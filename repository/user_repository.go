package repository

import (
	"context"
	"time"

	"farmhith/models/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByPhone(ctx context.Context, phone string) (*user.User, error)
	// MarkSignedIn stamps last_sign_in_at, and phone_verified when the sign-in used an OTP.
	MarkSignedIn(ctx context.Context, id string, at time.Time, phoneVerified bool) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*user.Profile, error)
	// Upsert inserts p or replaces the row with the same user id.
	Upsert(ctx context.Context, p *user.Profile) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *user.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUserRepository) MarkSignedIn(ctx context.Context, id string, at time.Time, phoneVerified bool) error {
	updates := map[string]any{"last_sign_in_at": at}
	if phoneVerified {
		updates["phone_verified"] = true
	}
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) GetByUserID(ctx context.Context, userID string) (*user.Profile, error) {
	var p user.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormProfileRepository) Upsert(ctx context.Context, p *user.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "email", "village", "district", "state", "address", "farm_details", "updated_at"}),
		}).
		Create(p).Error
}
