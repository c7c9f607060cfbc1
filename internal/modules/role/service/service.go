package role

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/role/dto"
	"quezon.gov.ph/portal/internal/modules/role/repository"
	"quezon.gov.ph/portal/pkg/apperror"
)

type RoleService interface {
	RolesOf(ctx context.Context, userID uuid.UUID) ([]entity.AppRole, error)
	Grant(ctx context.Context, actor, target uuid.UUID, role string, meta dto.AuditMetadata) ([]entity.AppRole, error)
	Revoke(ctx context.Context, actor, target uuid.UUID, role string, meta dto.AuditMetadata) ([]entity.AppRole, error)
	History(ctx context.Context, target uuid.UUID, limit int) ([]entity.RoleAudit, error)
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) RolesOf(ctx context.Context, userID uuid.UUID) ([]entity.AppRole, error) {
	roles, err := s.repo.RolesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	if roles == nil {
		roles = []entity.AppRole{}
	}
	return roles, nil
}

func newAudit(op string, actor uuid.UUID, meta dto.AuditMetadata) *entity.RoleAudit {
	raw, _ := json.Marshal(meta)
	audit := &entity.RoleAudit{Operation: op, Metadata: datatypes.JSON(raw)}
	if actor != uuid.Nil {
		audit.ActorID = &actor
	}
	return audit
}

func (s *roleService) Grant(ctx context.Context, actor, target uuid.UUID, raw string, meta dto.AuditMetadata) ([]entity.AppRole, error) {
	role, err := entity.ParseStatus[entity.AppRole](raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Grant(ctx, target, role, newAudit(entity.AuditGrant, actor, meta)); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}
	return s.RolesOf(ctx, target)
}

// Revoke refuses to remove the actor's own admin role so an administrator
// cannot lock themselves out.
func (s *roleService) Revoke(ctx context.Context, actor, target uuid.UUID, raw string, meta dto.AuditMetadata) ([]entity.AppRole, error) {
	role, err := entity.ParseStatus[entity.AppRole](raw)
	if err != nil {
		return nil, err
	}
	if actor == target && role == entity.RoleAdmin {
		return nil, apperror.New(http.StatusForbidden, "you cannot revoke your own admin role", apperror.ErrForbidden)
	}

	changed, err := s.repo.Revoke(ctx, target, role, newAudit(entity.AuditRevoke, actor, meta))
	if err != nil {
		return nil, fmt.Errorf("failed to revoke role: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("user %s does not hold role %s: %w", target, role, apperror.ErrNotFound)
	}
	return s.RolesOf(ctx, target)
}

func (s *roleService) History(ctx context.Context, target uuid.UUID, limit int) ([]entity.RoleAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListAudit(ctx, target, limit)
}
