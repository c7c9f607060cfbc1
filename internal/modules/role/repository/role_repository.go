package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"quezon.gov.ph/portal/internal/entity"
)

type RoleRepository interface {
	RolesOf(ctx context.Context, userID uuid.UUID) ([]entity.AppRole, error)
	// Grant and Revoke report false when nothing changed; no audit row is
	// written in that case. audit gets its snapshots filled in.
	Grant(ctx context.Context, userID uuid.UUID, role entity.AppRole, audit *entity.RoleAudit) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, role entity.AppRole, audit *entity.RoleAudit) (bool, error)
	ListAudit(ctx context.Context, userID uuid.UUID, limit int) ([]entity.RoleAudit, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func rolesOf(tx *gorm.DB, userID uuid.UUID) ([]entity.AppRole, error) {
	var roles []entity.AppRole
	err := tx.Model(&entity.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error
	return roles, err
}

func snapshot(userID uuid.UUID, roles []entity.AppRole) datatypes.JSON {
	if roles == nil {
		roles = []entity.AppRole{}
	}
	raw, _ := json.Marshal(map[string]any{"user_id": userID, "roles": roles})
	return datatypes.JSON(raw)
}

func (r *roleRepository) RolesOf(ctx context.Context, userID uuid.UUID) ([]entity.AppRole, error) {
	return rolesOf(r.db.WithContext(ctx), userID)
}

func (r *roleRepository) change(ctx context.Context, userID uuid.UUID, audit *entity.RoleAudit, apply func(tx *gorm.DB) *gorm.DB) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := rolesOf(tx, userID)
		if err != nil {
			return err
		}

		res := apply(tx)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true

		after, err := rolesOf(tx, userID)
		if err != nil {
			return err
		}

		audit.TargetUserID = userID
		audit.Before = snapshot(userID, before)
		audit.After = snapshot(userID, after)
		return tx.Create(audit).Error
	})
	return changed, err
}

func (r *roleRepository) Grant(ctx context.Context, userID uuid.UUID, role entity.AppRole, audit *entity.RoleAudit) (bool, error) {
	return r.change(ctx, userID, audit, func(tx *gorm.DB) *gorm.DB {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.UserRole{UserID: userID, Role: role})
	})
}

func (r *roleRepository) Revoke(ctx context.Context, userID uuid.UUID, role entity.AppRole, audit *entity.RoleAudit) (bool, error) {
	return r.change(ctx, userID, audit, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND role = ?", userID, role).Delete(&entity.UserRole{})
	})
}

func (r *roleRepository) ListAudit(ctx context.Context, userID uuid.UUID, limit int) ([]entity.RoleAudit, error) {
	var rows []entity.RoleAudit
	err := r.db.WithContext(ctx).
		Where("target_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
