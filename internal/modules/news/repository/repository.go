package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/database"
)

type NewsRepository interface {
	Create(ctx context.Context, news *entity.News) error
	Update(ctx context.Context, news *entity.News) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.News, error)
	FindAll(ctx context.Context, status entity.ContentStatus) ([]entity.News, error)
	FindPublished(ctx context.Context, category string, offset, limit int) ([]entity.News, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) Update(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.News{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *newsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	var news entity.News
	if err := r.db.WithContext(ctx).First(&news, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &news, nil
}

// FindAll lists news for the admin manager, oldest first.
func (r *newsRepository) FindAll(ctx context.Context, status entity.ContentStatus) ([]entity.News, error) {
	var news []entity.News
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&news).Error
	return news, err
}

func (r *newsRepository) FindPublished(ctx context.Context, category string, offset, limit int) ([]entity.News, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.News{}).Where("status = ?", entity.ContentPublished)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var news []entity.News
	err := query.
		Order("COALESCE(publish_date, created_at) DESC").
		Offset(offset).
		Limit(limit).
		Find(&news).Error
	return news, total, err
}

func (r *newsRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return database.CountByStatus(ctx, r.db, &entity.News{})
}
