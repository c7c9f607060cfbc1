package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type UploadResponse struct {
	ID           uuid.UUID  `json:"id"`
	FileURL      string     `json:"file_url"`
	FileName     string     `json:"file_name"`
	FileType     string     `json:"file_type"`
	FileSize     int64      `json:"file_size"`
	ResourceType string     `json:"resource_type"`
	AttachedAt   *time.Time `json:"attached_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ListUploadsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// UploadFile is an opened multipart file handed to the service.
type UploadFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}
