package dto

import (
	"time"

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type PasswordResetInput struct {
	Email string `json:"email" binding:"required,email"`
}

type UserListQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=200"`
}

type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type AuthResponse struct {
	AccessToken    string           `json:"access_token"`
	RefreshToken   string           `json:"refresh_token"`
	TokenType      string           `json:"token_type"`
	ExpiresIn      int              `json:"expires_in"`
	ExpiresAt      time.Time        `json:"expires_at"`
	User           SessionUser      `json:"user"`
	Roles          []entity.AppRole `json:"roles"`
	CanAccessAdmin bool             `json:"can_access_admin"`
}

type SessionResponse struct {
	User           SessionUser      `json:"user"`
	ExpiresAt      time.Time        `json:"expires_at"`
	Roles          []entity.AppRole `json:"roles"`
	CanAccessAdmin bool             `json:"can_access_admin"`
}
