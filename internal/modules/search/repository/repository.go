package repository

import (
	"context"

	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
)

// SourceRepository reads the rows a full reindex needs.
type SourceRepository interface {
	PublishedNews(ctx context.Context) ([]entity.News, error)
	Events(ctx context.Context) ([]entity.Event, error)
	PublishedDocuments(ctx context.Context) ([]entity.Document, error)
}

type sourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) PublishedNews(ctx context.Context) ([]entity.News, error) {
	var news []entity.News
	err := r.db.WithContext(ctx).Where("status = ?", entity.ContentPublished).Find(&news).Error
	return news, err
}

func (r *sourceRepository) Events(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).Find(&events).Error
	return events, err
}

func (r *sourceRepository) PublishedDocuments(ctx context.Context) ([]entity.Document, error) {
	var docs []entity.Document
	err := r.db.WithContext(ctx).Where("status = ?", entity.ContentPublished).Find(&docs).Error
	return docs, err
}
