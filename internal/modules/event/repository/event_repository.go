package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/database"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindAll(ctx context.Context, status entity.EventStatus) ([]entity.Event, error)
	FindPublic(ctx context.Context, statuses []entity.EventStatus, category string, offset, limit int) ([]entity.Event, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, status entity.EventStatus) ([]entity.Event, error) {
	var events []entity.Event
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("event_date ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) FindPublic(ctx context.Context, statuses []entity.EventStatus, category string, offset, limit int) ([]entity.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Event{}).Where("status IN ?", statuses)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []entity.Event
	err := query.Order("event_date ASC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *eventRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return database.CountByStatus(ctx, r.db, &entity.Event{})
}
