package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/database"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error)
	FindAll(ctx context.Context, status entity.MessageStatus) ([]entity.ContactMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MessageStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	var msg entity.ContactMessage
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *contactRepository) FindAll(ctx context.Context, status entity.MessageStatus) ([]entity.ContactMessage, error) {
	var msgs []entity.ContactMessage
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MessageStatus) error {
	res := r.db.WithContext(ctx).Model(&entity.ContactMessage{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.ContactMessage{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return database.CountByStatus(ctx, r.db, &entity.ContactMessage{})
}
