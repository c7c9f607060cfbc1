package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/session"
)

// RoleLookup returns the roles granted to a user.
type RoleLookup interface {
	RolesOf(ctx context.Context, userID uuid.UUID) ([]entity.AppRole, error)
}

// Claims is the subset of the hosted backend's access token we rely on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	roles  RoleLookup
	secret []byte
}

func NewAuthMiddleware(roles RoleLookup, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		roles:  roles,
		secret: []byte(jwtSecret),
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Fallback to query parameter "token" (useful for WebSockets)
	return c.Query("token")
}

// ParseToken verifies an HS256 access token and returns its session.
func (m *AuthMiddleware) ParseToken(tokenString string) (*session.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	s := &session.Session{
		UserID:      userID,
		Email:       claims.Email,
		AccessToken: tokenString,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		s, err := m.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		session.Set(c, s)
		c.Next()
	}
}

// RequireRole admits the request if the caller holds any role in allow.
// A failed lookup denies access.
func (m *AuthMiddleware) RequireRole(allow ...entity.AppRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.From(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		if s.Roles == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			roles, err := m.roles.RolesOf(ctx, s.UserID)
			cancel()
			if err != nil {
				log.Printf("role lookup failed for %s: %v", s.UserID, err)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unable to verify access"})
				return
			}
			if roles == nil {
				roles = []entity.AppRole{}
			}
			s.Roles = roles
		}

		if !s.HasAnyRole(allow...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}

		c.Next()
	}
}

var (
	ContentRoles = []entity.AppRole{entity.RoleAdmin, entity.RoleModerator}
	BACRoles     = []entity.AppRole{entity.RoleAdmin, entity.RoleBAC}
	AdminRoles   = []entity.AppRole{entity.RoleAdmin}
	// StaffRoles may open the admin shell at all.
	StaffRoles = []entity.AppRole{entity.RoleAdmin, entity.RoleModerator, entity.RoleBAC}
)
