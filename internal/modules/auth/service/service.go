package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/middleware"
	"quezon.gov.ph/portal/internal/modules/auth/dto"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/baas"
)

// Provider is the part of the hosted auth service the portal uses.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*baas.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*baas.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	AdminListUsers(ctx context.Context, page, perPage int) ([]baas.User, error)
}

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, s *session.Session) error
	Session(ctx context.Context, s *session.Session) (*dto.SessionResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ListUsers(ctx context.Context, page, perPage int) ([]baas.User, error)
}

type authService struct {
	provider Provider
	roles    middleware.RoleLookup
	resetURL string
}

// NewAuthService sends password reset links back to publicURL's sign-in page.
func NewAuthService(provider Provider, roles middleware.RoleLookup, publicURL string) AuthService {
	resetURL := ""
	if publicURL != "" {
		resetURL = strings.TrimRight(publicURL, "/") + "/auth?mode=reset"
	}
	return &authService{
		provider: provider,
		roles:    roles,
		resetURL: resetURL,
	}
}

// mapProviderError turns hosted auth failures into portal errors.
func mapProviderError(err error) error {
	switch {
	case baas.IsInvalidCredentials(err):
		return apperror.New(http.StatusUnauthorized, "invalid email or password", apperror.ErrUnauthorized)
	case baas.IsRateLimited(err):
		return apperror.New(http.StatusTooManyRequests, "too many attempts, please try again later", apperror.ErrRateLimitExceeded)
	case errors.Is(err, baas.ErrNoServiceKey):
		return fmt.Errorf("%v: %w", err, apperror.ErrServiceUnavailable)
	}
	var be *baas.Error
	if errors.As(err, &be) && be.Status >= 400 && be.Status < 500 {
		return apperror.New(http.StatusUnauthorized, "session is invalid or expired", apperror.ErrUnauthorized)
	}
	return fmt.Errorf("auth service: %v: %w", err, apperror.ErrServiceUnavailable)
}

func (s *authService) rolesOf(ctx context.Context, userID uuid.UUID) []entity.AppRole {
	roles, err := s.roles.RolesOf(ctx, userID)
	if err != nil {
		// the role gate fails closed on its own; here the caller only loses the hint
		log.Printf("role lookup for %s: %v", userID, err)
		return []entity.AppRole{}
	}
	if roles == nil {
		roles = []entity.AppRole{}
	}
	return roles
}

func (s *authService) buildAuthResponse(ctx context.Context, sess *baas.Session) (*dto.AuthResponse, error) {
	userID, err := uuid.Parse(sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service returned user id %q: %w", sess.User.ID, apperror.ErrServiceUnavailable)
	}

	expiresAt := time.Unix(sess.ExpiresAt, 0)
	if sess.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}

	roles := s.rolesOf(ctx, userID)
	return &dto.AuthResponse{
		AccessToken:    sess.AccessToken,
		RefreshToken:   sess.RefreshToken,
		TokenType:      "bearer",
		ExpiresIn:      sess.ExpiresIn,
		ExpiresAt:      expiresAt.UTC(),
		User:           dto.SessionUser{ID: userID, Email: sess.User.Email},
		Roles:          roles,
		CanAccessAdmin: entity.HasAnyRole(roles, middleware.StaffRoles...),
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	sess, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return s.buildAuthResponse(ctx, sess)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	sess, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return s.buildAuthResponse(ctx, sess)
}

// Logout revokes the session upstream. A failure there is logged; the
// client drops its tokens either way.
func (s *authService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.provider.SignOut(ctx, sess.AccessToken); err != nil {
		log.Printf("sign out %s: %v", sess.UserID, err)
	}
	return nil
}

func (s *authService) Session(ctx context.Context, sess *session.Session) (*dto.SessionResponse, error) {
	roles := sess.Roles
	if roles == nil {
		roles = s.rolesOf(ctx, sess.UserID)
	}
	return &dto.SessionResponse{
		User:           dto.SessionUser{ID: sess.UserID, Email: sess.Email},
		ExpiresAt:      sess.ExpiresAt.UTC(),
		Roles:          roles,
		CanAccessAdmin: entity.HasAnyRole(roles, middleware.StaffRoles...),
	}, nil
}

// RequestPasswordReset does not reveal whether the address has an account;
// only throttling is reported back.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	err := s.provider.ResetPasswordForEmail(ctx, strings.TrimSpace(email), s.resetURL)
	if err == nil {
		return nil
	}
	if baas.IsRateLimited(err) {
		return mapProviderError(err)
	}
	log.Printf("password reset request: %v", err)
	return nil
}

func (s *authService) ListUsers(ctx context.Context, page, perPage int) ([]baas.User, error) {
	users, err := s.provider.AdminListUsers(ctx, page, perPage)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if users == nil {
		users = []baas.User{}
	}
	return users, nil
}
