package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	profileDto "quezon.gov.ph/portal/internal/modules/profile/dto"
	"quezon.gov.ph/portal/internal/modules/profile/repository"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/database"
)

const scope = "profiles"

// ProfileService never deletes profiles; the hosted auth service owns their
// lifetime.
type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileRequest) (*entity.Profile, error)
	List(ctx context.Context, filter profileDto.ProfileFilter) ([]entity.Profile, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, input profileDto.AdminUpdateProfileRequest) (*entity.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type profileService struct {
	repo  repository.ProfileRepository
	hooks *mutation.Hooks
}

func NewProfileService(repo repository.ProfileRepository, hooks *mutation.Hooks) ProfileService {
	return &profileService{repo: repo, hooks: hooks}
}

func notFound(err error, what string) error {
	if database.IsNotFound(err) {
		return fmt.Errorf("profile %s: %w", what, apperror.ErrNotFound)
	}
	return err
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, userID.String())
	}
	return p, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileRequest) (*entity.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, userID.String())
	}

	if input.FullName != nil {
		p.FullName = normalizeOptional(input.FullName)
	}
	if input.AvatarURL != nil {
		p.AvatarURL = normalizeOptional(input.AvatarURL)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.hooks.After(ctx, scope, mutation.OpUpdate, mutation.Deref(p.AvatarURL))
	return p, nil
}

func (s *profileService) List(ctx context.Context, filter profileDto.ProfileFilter) ([]entity.Profile, error) {
	return s.repo.FindAll(ctx, filter.Role)
}

func (s *profileService) AdminUpdate(ctx context.Context, id uuid.UUID, input profileDto.AdminUpdateProfileRequest) (*entity.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id.String())
	}

	if input.FullName != nil {
		p.FullName = normalizeOptional(input.FullName)
	}
	if input.AvatarURL != nil {
		p.AvatarURL = normalizeOptional(input.AvatarURL)
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		p.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.hooks.After(ctx, scope, mutation.OpUpdate, mutation.Deref(p.AvatarURL))
	return p, nil
}

func (s *profileService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
