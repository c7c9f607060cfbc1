package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppRole is a capability grant held in user_roles.
type AppRole string

const (
	RoleAdmin     AppRole = "admin"
	RoleModerator AppRole = "moderator"
	RoleUser      AppRole = "user"
	RoleBAC       AppRole = "bac"
)

func (r AppRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser, RoleBAC:
		return true
	}
	return false
}

// HasAnyRole reports whether any of roles is in allow.
func HasAnyRole(roles []AppRole, allow ...AppRole) bool {
	for _, r := range roles {
		for _, a := range allow {
			if r == a {
				return true
			}
		}
	}
	return false
}

// Profile mirrors one identity of the hosted auth service. Rows are created
// by the backend at signup and never deleted from here.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	FullName  *string   `gorm:"size:255" json:"full_name,omitempty"`
	Role      string    `gorm:"size:50;not null;default:user" json:"role"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      AppRole   `gorm:"size:20;not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserRole) TableName() string { return "user_roles" }

func (r *UserRole) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

const (
	AuditGrant  = "grant"
	AuditRevoke = "revoke"
)

// RoleAudit is an append-only record of a role change.
type RoleAudit struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Operation    string         `gorm:"size:20;not null" json:"operation"`
	ActorID      *uuid.UUID     `gorm:"type:uuid" json:"actor_id,omitempty"`
	TargetUserID uuid.UUID      `gorm:"type:uuid;index;not null" json:"target_user_id"`
	Before       datatypes.JSON `gorm:"type:jsonb" json:"before,omitempty"`
	After        datatypes.JSON `gorm:"type:jsonb" json:"after,omitempty"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (RoleAudit) TableName() string { return "user_roles_audit" }

func (a *RoleAudit) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
