package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/database"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindAll(ctx context.Context, status entity.ContentStatus, category string) ([]entity.Document, error)
	FindPublished(ctx context.Context, category string, offset, limit int) ([]entity.Document, int64, error)
	AddDownloads(ctx context.Context, id uuid.UUID, n int) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Update leaves download_count alone; the counter owns it.
func (r *documentRepository) Update(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Omit("download_count").Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var doc entity.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindAll(ctx context.Context, status entity.ContentStatus, category string) ([]entity.Document, error) {
	var docs []entity.Document
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("title ASC").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) FindPublished(ctx context.Context, category string, offset, limit int) ([]entity.Document, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Document{}).Where("status = ?", entity.ContentPublished)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []entity.Document
	err := query.Order("title ASC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

func (r *documentRepository) AddDownloads(ctx context.Context, id uuid.UUID, n int) error {
	return r.db.WithContext(ctx).
		Model(&entity.Document{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", n)).Error
}

func (r *documentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return database.CountByStatus(ctx, r.db, &entity.Document{})
}
