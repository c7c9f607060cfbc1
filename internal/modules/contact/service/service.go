package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/metrics"
	"quezon.gov.ph/portal/internal/modules/contact/dto"
	"quezon.gov.ph/portal/internal/modules/contact/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
)

const (
	scope = "contact_messages"
	// FeedChannel carries new and updated messages to staff dashboards.
	FeedChannel = "portal:contact_messages:feed"

	rateLimitAction = "contact"
)

// FeedEvent is published on FeedChannel.
type FeedEvent struct {
	Type    string                `json:"type"`
	Message entity.ContactMessage `json:"message"`
}

type ContactService interface {
	Submit(ctx context.Context, clientIP string, req dto.ContactRequest) (*entity.ContactMessage, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]entity.ContactMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	repo        repository.ContactRepository
	redisClient *redis.Client
	hooks       *mutation.Hooks
	window      time.Duration
}

// NewContactService limits each client IP to one submission per window.
// A nil redisClient disables both the limit and the live feed.
func NewContactService(repo repository.ContactRepository, redisClient *redis.Client, hooks *mutation.Hooks, window time.Duration) ContactService {
	return &contactService{
		repo:        repo,
		redisClient: redisClient,
		hooks:       hooks,
		window:      window,
	}
}

func (s *contactService) Submit(ctx context.Context, clientIP string, req dto.ContactRequest) (*entity.ContactMessage, error) {
	allowed, err := cache.CheckAndSetRateLimit(ctx, s.redisClient, clientIP, rateLimitAction, s.window)
	if err != nil {
		// fail open, the form is public and low risk
		log.Printf("contact rate limit check: %v", err)
		allowed = true
	}
	if !allowed {
		metrics.RateLimited.WithLabelValues(rateLimitAction).Inc()
		ttl, _ := cache.GetRateLimitTTL(ctx, s.redisClient, clientIP, rateLimitAction)
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("please wait %d seconds before sending another message", int(ttl.Seconds())),
			apperror.ErrRateLimitExceeded)
	}

	msg := &entity.ContactMessage{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      req.Phone,
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		Department: req.Department,
		Status:     entity.MessageNew,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		if clearErr := cache.ClearRateLimit(ctx, s.redisClient, clientIP, rateLimitAction); clearErr != nil {
			log.Printf("clear contact rate limit: %v", clearErr)
		}
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	metrics.ContactSubmissions.Inc()
	s.hooks.After(ctx, scope, mutation.OpCreate)
	s.publish(ctx, "created", msg)
	return msg, nil
}

func (s *contactService) List(ctx context.Context, filter dto.ContactFilter) ([]entity.ContactMessage, error) {
	return s.repo.FindAll(ctx, entity.MessageStatus(filter.Status))
}

func (s *contactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("contact message %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}

	next, err := entity.Transition(msg.Status, entity.MessageStatus(status))
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("contact message %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	msg.Status = next

	s.hooks.After(ctx, scope, mutation.OpUpdate)
	s.publish(ctx, "updated", msg)
	return msg, nil
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsNotFound(err) {
			return fmt.Errorf("contact message %s: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	s.hooks.After(ctx, scope, mutation.OpDelete)
	return nil
}

func (s *contactService) publish(ctx context.Context, typ string, msg *entity.ContactMessage) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(FeedEvent{Type: typ, Message: *msg})
	if err != nil {
		return
	}
	if err := s.redisClient.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		log.Printf("publish contact feed: %v", err)
	}
}
