package news

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/news/dto"
	"quezon.gov.ph/portal/internal/modules/news/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

const scope = "news"

// Indexer keeps the search index in step with news writes.
type Indexer interface {
	IndexNews(news *entity.News) error
	Remove(index, id string) error
}

type NewsService interface {
	List(ctx context.Context, filter dto.AdminNewsFilter) ([]entity.News, error)
	Create(ctx context.Context, authorID uuid.UUID, req dto.NewsRequest) (*entity.News, error)
	Update(ctx context.Context, id uuid.UUID, req dto.NewsRequest) (*entity.News, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPublished(ctx context.Context, filter dto.NewsFilter) (*commonDto.Paginated[entity.News], error)
	GetPublishedByID(ctx context.Context, id uuid.UUID) (*entity.News, error)
}

type newsService struct {
	repo      repository.NewsRepository
	indexer   Indexer
	hooks     *mutation.Hooks
	cache     *cache.Cache
	sanitizer *bluemonday.Policy
}

func NewNewsService(repo repository.NewsRepository, indexer Indexer, hooks *mutation.Hooks, c *cache.Cache) NewsService {
	return &newsService{
		repo:      repo,
		indexer:   indexer,
		hooks:     hooks,
		cache:     c,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *newsService) List(ctx context.Context, filter dto.AdminNewsFilter) ([]entity.News, error) {
	return s.repo.FindAll(ctx, entity.ContentStatus(filter.Status))
}

func (s *newsService) apply(n *entity.News, req dto.NewsRequest) {
	n.Title = strings.TrimSpace(req.Title)
	n.Content = s.sanitizer.Sanitize(req.Content)
	n.Excerpt = req.Excerpt
	n.ImageURL = req.ImageURL
	n.PublishDate = req.PublishDate
	n.Category = req.Category
	n.Tags = req.Tags
}

func (s *newsService) Create(ctx context.Context, authorID uuid.UUID, req dto.NewsRequest) (*entity.News, error) {
	status := entity.ContentDraft
	if req.Status != "" {
		var err error
		if status, err = entity.ParseStatus[entity.ContentStatus](req.Status); err != nil {
			return nil, err
		}
	}

	n := &entity.News{Status: status}
	if authorID != uuid.Nil {
		n.AuthorID = &authorID
	}
	s.apply(n, req)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	s.afterWrite(ctx, n, mutation.OpCreate)
	return n, nil
}

func (s *newsService) Update(ctx context.Context, id uuid.UUID, req dto.NewsRequest) (*entity.News, error) {
	n, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if n.Status, err = entity.Transition(n.Status, entity.ContentStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	s.apply(n, req)

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to update news: %w", err)
	}

	s.afterWrite(ctx, n, mutation.OpUpdate)
	return n, nil
}

func (s *newsService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("news %s: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete news: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.Remove(scope, id.String()); err != nil {
			log.Printf("search remove news %s: %v", id, err)
		}
	}
	s.hooks.After(ctx, scope, mutation.OpDelete)
	return nil
}

func (s *newsService) afterWrite(ctx context.Context, n *entity.News, op string) {
	if s.indexer != nil {
		if err := s.indexer.IndexNews(n); err != nil {
			log.Printf("search index news %s: %v", n.ID, err)
		}
	}
	s.hooks.After(ctx, scope, op, mutation.Deref(n.ImageURL))
}

func (s *newsService) find(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("news %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (s *newsService) GetPublished(ctx context.Context, filter dto.NewsFilter) (*commonDto.Paginated[entity.News], error) {
	filter.Normalize()

	key := cache.Key(scope, "list", filter.Page, filter.Limit, filter.Category)
	var cached commonDto.Paginated[entity.News]
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	news, total, err := s.repo.FindPublished(ctx, filter.Category, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if news == nil {
		news = []entity.News{}
	}

	res := &commonDto.Paginated[entity.News]{
		Data: news,
		Meta: commonDto.NewPaginationMeta(filter.PageQuery, total),
	}
	s.cache.SetJSON(ctx, key, res)
	return res, nil
}

func (s *newsService) GetPublishedByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	key := cache.Key(scope, "item", id)
	var cached entity.News
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	n, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != entity.ContentPublished {
		return nil, fmt.Errorf("news %s: %w", id, apperror.ErrNotFound)
	}

	s.cache.SetJSON(ctx, key, n)
	return n, nil
}
