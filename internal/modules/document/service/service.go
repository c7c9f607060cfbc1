package document

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/document/dto"
	"quezon.gov.ph/portal/internal/modules/document/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

const scope = "documents"

type Indexer interface {
	IndexDocument(doc *entity.Document) error
	Remove(index, id string) error
}

// DownloadRecorder counts a download of a published document.
type DownloadRecorder interface {
	Record(ctx context.Context, documentID uuid.UUID, clientIP string) error
}

type DocumentService interface {
	List(ctx context.Context, filter dto.AdminDocumentFilter) ([]entity.Document, error)
	Create(ctx context.Context, req dto.DocumentRequest) (*entity.Document, error)
	Update(ctx context.Context, id uuid.UUID, req dto.DocumentRequest) (*entity.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPublished(ctx context.Context, filter dto.DocumentFilter) (*commonDto.Paginated[entity.Document], error)
	Download(ctx context.Context, id uuid.UUID, clientIP string) (string, error)
}

type documentService struct {
	repo     repository.DocumentRepository
	indexer  Indexer
	hooks    *mutation.Hooks
	cache    *cache.Cache
	recorder DownloadRecorder
}

func NewDocumentService(repo repository.DocumentRepository, indexer Indexer, hooks *mutation.Hooks, c *cache.Cache, recorder DownloadRecorder) DocumentService {
	return &documentService{
		repo:     repo,
		indexer:  indexer,
		hooks:    hooks,
		cache:    c,
		recorder: recorder,
	}
}

func (s *documentService) List(ctx context.Context, filter dto.AdminDocumentFilter) ([]entity.Document, error) {
	return s.repo.FindAll(ctx, entity.ContentStatus(filter.Status), filter.Category)
}

func apply(d *entity.Document, req dto.DocumentRequest) {
	d.Title = strings.TrimSpace(req.Title)
	d.Description = req.Description
	d.Category = strings.TrimSpace(req.Category)
	d.Department = req.Department
	d.FileURL = req.FileURL
	d.FileType = req.FileType
	d.FileSize = req.FileSize
}

func (s *documentService) Create(ctx context.Context, req dto.DocumentRequest) (*entity.Document, error) {
	status := entity.ContentDraft
	if req.Status != "" {
		var err error
		if status, err = entity.ParseStatus[entity.ContentStatus](req.Status); err != nil {
			return nil, err
		}
	}

	d := &entity.Document{Status: status}
	apply(d, req)

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.afterWrite(ctx, d, mutation.OpCreate)
	return d, nil
}

func (s *documentService) Update(ctx context.Context, id uuid.UUID, req dto.DocumentRequest) (*entity.Document, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if d.Status, err = entity.Transition(d.Status, entity.ContentStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	apply(d, req)

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	s.afterWrite(ctx, d, mutation.OpUpdate)
	return d, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("document %s: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.Remove(scope, id.String()); err != nil {
			log.Printf("search remove document %s: %v", id, err)
		}
	}
	s.hooks.After(ctx, scope, mutation.OpDelete)
	return nil
}

func (s *documentService) afterWrite(ctx context.Context, d *entity.Document, op string) {
	if s.indexer != nil {
		if err := s.indexer.IndexDocument(d); err != nil {
			log.Printf("search index document %s: %v", d.ID, err)
		}
	}
	s.hooks.After(ctx, scope, op, d.FileURL)
}

func (s *documentService) find(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (s *documentService) GetPublished(ctx context.Context, filter dto.DocumentFilter) (*commonDto.Paginated[entity.Document], error) {
	filter.Normalize()

	key := cache.Key(scope, "list", filter.Page, filter.Limit, filter.Category)
	var cached commonDto.Paginated[entity.Document]
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	docs, total, err := s.repo.FindPublished(ctx, filter.Category, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []entity.Document{}
	}

	res := &commonDto.Paginated[entity.Document]{
		Data: docs,
		Meta: commonDto.NewPaginationMeta(filter.PageQuery, total),
	}
	s.cache.SetJSON(ctx, key, res)
	return res, nil
}

// Download returns the file location of a published document and counts
// the request.
func (s *documentService) Download(ctx context.Context, id uuid.UUID, clientIP string) (string, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if d.Status != entity.ContentPublished {
		return "", fmt.Errorf("document %s: %w", id, apperror.ErrNotFound)
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, id, clientIP); err != nil {
			log.Printf("record download %s: %v", id, err)
		}
	}
	return d.FileURL, nil
}
