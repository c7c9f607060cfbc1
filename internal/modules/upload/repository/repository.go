package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *entity.UploadEvent) error
	MarkAttached(ctx context.Context, fileURLs []string, at time.Time) error
	FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.UploadEvent, error)
	FindRecent(ctx context.Context, limit int) ([]entity.UploadEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *entity.UploadEvent) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

// MarkAttached stamps uploads the first time content references them.
func (r *uploadRepository) MarkAttached(ctx context.Context, fileURLs []string, at time.Time) error {
	if len(fileURLs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.UploadEvent{}).
		Where("file_url IN ? AND attached_at IS NULL", fileURLs).
		Update("attached_at", at).Error
}

func (r *uploadRepository) FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.UploadEvent, error) {
	var uploads []entity.UploadEvent
	err := r.db.WithContext(ctx).
		Where("attached_at IS NULL AND created_at < ?", cutoffTime).
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) FindRecent(ctx context.Context, limit int) ([]entity.UploadEvent, error) {
	var uploads []entity.UploadEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.UploadEvent{}, "id = ?", id).Error
}
