package event

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/event/dto"
	"quezon.gov.ph/portal/internal/modules/event/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

const scope = "events"

// Public listings show these unless a status filter is given.
var defaultPublicStatuses = []entity.EventStatus{entity.EventUpcoming, entity.EventOngoing}

type Indexer interface {
	IndexEvent(event *entity.Event) error
	Remove(index, id string) error
}

type EventService interface {
	List(ctx context.Context, filter dto.AdminEventFilter) ([]entity.Event, error)
	Create(ctx context.Context, req dto.EventRequest) (*entity.Event, error)
	Update(ctx context.Context, id uuid.UUID, req dto.EventRequest) (*entity.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPublic(ctx context.Context, filter dto.EventFilter) (*commonDto.Paginated[entity.Event], error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
}

type eventService struct {
	repo    repository.EventRepository
	indexer Indexer
	hooks   *mutation.Hooks
	cache   *cache.Cache
}

func NewEventService(repo repository.EventRepository, indexer Indexer, hooks *mutation.Hooks, c *cache.Cache) EventService {
	return &eventService{repo: repo, indexer: indexer, hooks: hooks, cache: c}
}

func (s *eventService) List(ctx context.Context, filter dto.AdminEventFilter) ([]entity.Event, error) {
	return s.repo.FindAll(ctx, entity.EventStatus(filter.Status))
}

func parseOptional(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := commonDto.ParseDateTime(raw, commonDto.PhilippineTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", field, err, apperror.ErrInvalidInput)
	}
	return &t, nil
}

func apply(e *entity.Event, req dto.EventRequest) error {
	start, err := commonDto.ParseDateTime(req.EventDate, commonDto.PhilippineTime)
	if err != nil {
		return fmt.Errorf("event_date: %v: %w", err, apperror.ErrInvalidInput)
	}
	end, err := parseOptional(req.EndDate, "end_date")
	if err != nil {
		return err
	}
	if end != nil && end.Before(start) {
		return fmt.Errorf("end_date is before event_date: %w", apperror.ErrInvalidInput)
	}
	deadline, err := parseOptional(req.RegistrationDeadline, "registration_deadline")
	if err != nil {
		return err
	}

	e.Title = strings.TrimSpace(req.Title)
	e.Description = req.Description
	e.EventDate = start
	e.EndDate = end
	e.Location = req.Location
	e.Venue = req.Venue
	e.ImageURL = req.ImageURL
	e.Category = req.Category
	e.Organizer = req.Organizer
	e.ContactEmail = req.ContactEmail
	e.ContactPhone = req.ContactPhone
	e.RegistrationRequired = req.RegistrationRequired
	e.RegistrationDeadline = deadline
	e.RegistrationLink = req.RegistrationLink
	e.MaxCapacity = req.MaxCapacity
	e.Fee = req.Fee
	e.Currency = "PHP"
	if req.Currency != "" {
		e.Currency = strings.ToUpper(req.Currency)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, req dto.EventRequest) (*entity.Event, error) {
	status := entity.EventUpcoming
	if req.Status != "" {
		var err error
		if status, err = entity.ParseStatus[entity.EventStatus](req.Status); err != nil {
			return nil, err
		}
	}

	e := &entity.Event{Status: status}
	if err := apply(e, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.afterWrite(ctx, e, mutation.OpCreate)
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, req dto.EventRequest) (*entity.Event, error) {
	e, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if e.Status, err = entity.Transition(e.Status, entity.EventStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := apply(e, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.afterWrite(ctx, e, mutation.OpUpdate)
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("event %s: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.Remove(scope, id.String()); err != nil {
			log.Printf("search remove event %s: %v", id, err)
		}
	}
	s.hooks.After(ctx, scope, mutation.OpDelete)
	return nil
}

func (s *eventService) afterWrite(ctx context.Context, e *entity.Event, op string) {
	if s.indexer != nil {
		if err := s.indexer.IndexEvent(e); err != nil {
			log.Printf("search index event %s: %v", e.ID, err)
		}
	}
	s.hooks.After(ctx, scope, op, mutation.Deref(e.ImageURL))
}

func (s *eventService) find(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("event %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (s *eventService) GetPublic(ctx context.Context, filter dto.EventFilter) (*commonDto.Paginated[entity.Event], error) {
	filter.Normalize()

	statuses := defaultPublicStatuses
	if filter.Status != "" {
		statuses = []entity.EventStatus{entity.EventStatus(filter.Status)}
	}

	key := cache.Key(scope, "list", filter.Page, filter.Limit, filter.Status, filter.Category)
	var cached commonDto.Paginated[entity.Event]
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	events, total, err := s.repo.FindPublic(ctx, statuses, filter.Category, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []entity.Event{}
	}

	res := &commonDto.Paginated[entity.Event]{
		Data: events,
		Meta: commonDto.NewPaginationMeta(filter.PageQuery, total),
	}
	s.cache.SetJSON(ctx, key, res)
	return res, nil
}

func (s *eventService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	key := cache.Key(scope, "item", id)
	var cached entity.Event
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	e, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, e)
	return e, nil
}
