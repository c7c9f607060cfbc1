package upload

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/metrics"
	"quezon.gov.ph/portal/internal/modules/upload/dto"
	"quezon.gov.ph/portal/internal/modules/upload/repository"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/storage"
)

const (
	MaxFileSize = 10 << 20
	// OrphanAge is how long an upload may stay unreferenced before cleanup.
	OrphanAge = 24 * time.Hour
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

type UploadService interface {
	Upload(ctx context.Context, userID uuid.UUID, file dto.UploadFile) (*dto.UploadResponse, error)
	List(ctx context.Context, limit int) ([]dto.UploadResponse, error)
	MarkAttached(ctx context.Context, fileURLs ...string) error
	CleanupOrphanUploads(ctx context.Context) (int, error)
}

type uploadService struct {
	repo        repository.UploadRepository
	fileStorage storage.FileStorage
	now         func() time.Time
}

// NewUploadService accepts a nil fileStorage; uploads then fail with
// apperror.ErrServiceUnavailable.
func NewUploadService(repo repository.UploadRepository, fileStorage storage.FileStorage) UploadService {
	return &uploadService{
		repo:        repo,
		fileStorage: fileStorage,
		now:         time.Now,
	}
}

func folderFor(fileName string) string {
	if storage.IsImage(fileName) {
		return "images"
	}
	return "documents"
}

func (s *uploadService) Upload(ctx context.Context, userID uuid.UUID, file dto.UploadFile) (*dto.UploadResponse, error) {
	if s.fileStorage == nil {
		return nil, fmt.Errorf("file storage is not configured: %w", apperror.ErrServiceUnavailable)
	}
	if file.Size > MaxFileSize {
		return nil, fmt.Errorf("file exceeds %d MB: %w", MaxFileSize>>20, apperror.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !allowedExt[ext] {
		return nil, fmt.Errorf("file type %q is not allowed: %w", ext, apperror.ErrInvalidInput)
	}

	res, err := s.fileStorage.Upload(ctx, file.Reader, folderFor(file.FileName), file.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.FileName, err)
	}

	size := file.Size
	if res.Bytes > 0 {
		size = res.Bytes
	}
	ev := &entity.UploadEvent{
		UserID:       userID,
		FileURL:      res.URL,
		PublicID:     res.PublicID,
		ResourceType: res.ResourceType,
		FileName:     file.FileName,
		FileType:     file.ContentType,
		FileSize:     size,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		// Don't leave an untracked file behind.
		if delErr := s.fileStorage.Delete(ctx, res.URL); delErr != nil {
			log.Printf("failed to remove untracked upload %s: %v", res.URL, delErr)
		}
		return nil, err
	}

	out := toResponse(ev)
	return &out, nil
}

func (s *uploadService) List(ctx context.Context, limit int) ([]dto.UploadResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	uploads, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UploadResponse, 0, len(uploads))
	for i := range uploads {
		out = append(out, toResponse(&uploads[i]))
	}
	return out, nil
}

func (s *uploadService) MarkAttached(ctx context.Context, fileURLs ...string) error {
	return s.repo.MarkAttached(ctx, fileURLs, s.now())
}

// CleanupOrphanUploads removes uploads never attached to content within
// OrphanAge. A storage failure leaves the row so the next run retries.
func (s *uploadService) CleanupOrphanUploads(ctx context.Context) (int, error) {
	orphans, err := s.repo.FindOrphans(ctx, s.now().Add(-OrphanAge))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, orphan := range orphans {
		if s.fileStorage != nil {
			if err := s.fileStorage.Delete(ctx, orphan.FileURL); err != nil {
				log.Printf("failed to delete orphan upload %s: %v", orphan.FileURL, err)
				continue
			}
		}
		if err := s.repo.Delete(ctx, orphan.ID); err != nil {
			log.Printf("failed to delete orphan upload row %s: %v", orphan.ID, err)
			continue
		}
		removed++
	}
	metrics.OrphanUploadsRemoved.Add(float64(removed))
	return removed, nil
}

func toResponse(u *entity.UploadEvent) dto.UploadResponse {
	return dto.UploadResponse{
		ID:           u.ID,
		FileURL:      u.FileURL,
		FileName:     u.FileName,
		FileType:     u.FileType,
		FileSize:     u.FileSize,
		ResourceType: u.ResourceType,
		AttachedAt:   u.AttachedAt,
		CreatedAt:    u.CreatedAt,
	}
}
