package dto

import (
	"time"

	commonDto "quezon.gov.ph/portal/pkg/dto"
)

type NewsRequest struct {
	Title       string     `json:"title" binding:"required,notblank,max=255"`
	Content     string     `json:"content" binding:"required,notblank"`
	Excerpt     *string    `json:"excerpt" binding:"omitempty,max=500"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft published archived"`
	PublishDate *time.Time `json:"publish_date"`
	Category    *string    `json:"category" binding:"omitempty,max=100"`
	Tags        []string   `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

type NewsFilter struct {
	commonDto.PageQuery
	Category string `form:"category"`
}

type AdminNewsFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=draft published archived"`
}
