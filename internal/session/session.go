// Package session carries the authenticated caller explicitly through a
// request instead of reading it from ambient state.
package session

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
)

type Session struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
	ExpiresAt   time.Time

	// Roles is nil until a role gate has looked them up.
	Roles []entity.AppRole
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

func (s *Session) HasAnyRole(allow ...entity.AppRole) bool {
	return entity.HasAnyRole(s.Roles, allow...)
}

type ctxKey struct{}

const ginKey = "session"

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Set stores s on both the gin context and the request context, so services
// that only see context.Context can still reach it.
func Set(c *gin.Context, s *Session) {
	c.Set(ginKey, s)
	c.Request = c.Request.WithContext(NewContext(c.Request.Context(), s))
}

func From(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
