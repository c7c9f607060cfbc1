package bac

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/bac/dto"
	"quezon.gov.ph/portal/internal/modules/bac/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

const scope = "bac_documents"

type BacService interface {
	List(ctx context.Context, filter dto.BacFilter) ([]entity.BacDocument, error)
	Create(ctx context.Context, createdBy uuid.UUID, req dto.BacDocumentRequest) (*entity.BacDocument, error)
	Update(ctx context.Context, id uuid.UUID, req dto.BacDocumentRequest) (*entity.BacDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPublic(ctx context.Context, filter dto.BacFilter) (*commonDto.Paginated[entity.BacDocument], error)
}

type bacService struct {
	repo  repository.BacRepository
	hooks *mutation.Hooks
	cache *cache.Cache
}

func NewBacService(repo repository.BacRepository, hooks *mutation.Hooks, c *cache.Cache) BacService {
	return &bacService{repo: repo, hooks: hooks, cache: c}
}

func toFilter(f dto.BacFilter) repository.Filter {
	return repository.Filter{
		DocumentType: entity.BacDocumentType(f.DocumentType),
		Status:       entity.BacStatus(f.Status),
	}
}

func (s *bacService) List(ctx context.Context, filter dto.BacFilter) ([]entity.BacDocument, error) {
	return s.repo.FindAll(ctx, toFilter(filter))
}

func apply(b *entity.BacDocument, req dto.BacDocumentRequest) error {
	docType, err := entity.ParseStatus[entity.BacDocumentType](req.DocumentType)
	if err != nil {
		return err
	}

	b.ContractDate = nil
	if strings.TrimSpace(req.ContractDate) != "" {
		t, err := commonDto.ParseDateTime(req.ContractDate, commonDto.PhilippineTime)
		if err != nil {
			return fmt.Errorf("contract_date: %v: %w", err, apperror.ErrInvalidInput)
		}
		b.ContractDate = &t
	}

	b.Title = strings.TrimSpace(req.Title)
	b.Description = req.Description
	b.DocumentType = docType
	b.FileURL = req.FileURL
	b.FileName = req.FileName
	b.FileSize = req.FileSize
	b.ReferenceNumber = req.ReferenceNumber
	b.ProjectName = req.ProjectName
	b.Contractor = req.Contractor
	b.ContractAmount = req.ContractAmount
	return nil
}

func (s *bacService) Create(ctx context.Context, createdBy uuid.UUID, req dto.BacDocumentRequest) (*entity.BacDocument, error) {
	status := entity.BacActive
	if req.Status != "" {
		var err error
		if status, err = entity.ParseStatus[entity.BacStatus](req.Status); err != nil {
			return nil, err
		}
	}

	b := &entity.BacDocument{Status: status}
	if createdBy != uuid.Nil {
		b.CreatedBy = &createdBy
	}
	if err := apply(b, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create bac document: %w", err)
	}

	s.hooks.After(ctx, scope, mutation.OpCreate, mutation.Deref(b.FileURL))
	return b, nil
}

func (s *bacService) Update(ctx context.Context, id uuid.UUID, req dto.BacDocumentRequest) (*entity.BacDocument, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("bac document %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}

	if req.Status != "" {
		if b.Status, err = entity.Transition(b.Status, entity.BacStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := apply(b, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update bac document: %w", err)
	}

	s.hooks.After(ctx, scope, mutation.OpUpdate, mutation.Deref(b.FileURL))
	return b, nil
}

func (s *bacService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("bac document %s: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete bac document: %w", err)
	}
	s.hooks.After(ctx, scope, mutation.OpDelete)
	return nil
}

func (s *bacService) GetPublic(ctx context.Context, filter dto.BacFilter) (*commonDto.Paginated[entity.BacDocument], error) {
	filter.Normalize()

	key := cache.Key(scope, "list", filter.Page, filter.Limit, filter.DocumentType, filter.Status)
	var cached commonDto.Paginated[entity.BacDocument]
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	docs, total, err := s.repo.FindPublic(ctx, toFilter(filter), filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []entity.BacDocument{}
	}

	res := &commonDto.Paginated[entity.BacDocument]{
		Data: docs,
		Meta: commonDto.NewPaginationMeta(filter.PageQuery, total),
	}
	s.cache.SetJSON(ctx, key, res)
	return res, nil
}
