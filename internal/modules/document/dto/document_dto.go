package dto

import commonDto "quezon.gov.ph/portal/pkg/dto"

type DocumentRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=255"`
	Description *string `json:"description"`
	Category    string  `json:"category" binding:"required,notblank,max=100"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	FileURL     string  `json:"file_url" binding:"required,url"`
	FileType    *string `json:"file_type" binding:"omitempty,max=50"`
	FileSize    *int64  `json:"file_size" binding:"omitempty,min=0"`
	Status      string  `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type DocumentFilter struct {
	commonDto.PageQuery
	Category string `form:"category"`
}

type AdminDocumentFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Category string `form:"category"`
}
