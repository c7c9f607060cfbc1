package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/database"
)

// Filter narrows BAC listings; zero fields match everything.
type Filter struct {
	DocumentType entity.BacDocumentType
	Status       entity.BacStatus
}

type BacRepository interface {
	Create(ctx context.Context, doc *entity.BacDocument) error
	Update(ctx context.Context, doc *entity.BacDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BacDocument, error)
	FindAll(ctx context.Context, f Filter) ([]entity.BacDocument, error)
	FindPublic(ctx context.Context, f Filter, offset, limit int) ([]entity.BacDocument, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type bacRepository struct {
	db *gorm.DB
}

func NewBacRepository(db *gorm.DB) BacRepository {
	return &bacRepository{db: db}
}

func (r *bacRepository) Create(ctx context.Context, doc *entity.BacDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *bacRepository) Update(ctx context.Context, doc *entity.BacDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *bacRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.BacDocument{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bacRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BacDocument, error) {
	var doc entity.BacDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *bacRepository) filtered(ctx context.Context, f Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.BacDocument{})
	if f.DocumentType != "" {
		query = query.Where("document_type = ?", f.DocumentType)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	return query
}

func (r *bacRepository) FindAll(ctx context.Context, f Filter) ([]entity.BacDocument, error) {
	var docs []entity.BacDocument
	err := r.filtered(ctx, f).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

func (r *bacRepository) FindPublic(ctx context.Context, f Filter, offset, limit int) ([]entity.BacDocument, int64, error) {
	query := r.filtered(ctx, f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []entity.BacDocument
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

func (r *bacRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return database.CountByStatus(ctx, r.db, &entity.BacDocument{})
}
