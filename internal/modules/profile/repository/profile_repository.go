package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	FindAll(ctx context.Context, role string) ([]entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	Count(ctx context.Context) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindAll(ctx context.Context, role string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	query := r.db.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).
		Model(profile).
		Select("full_name", "avatar_url", "email", "updated_at").
		Updates(profile).Error
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Profile{}).Count(&count).Error
	return count, err
}
