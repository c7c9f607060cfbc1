// Package bootstrap prepares a development database and guards server
// startup with a fallback page.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"quezon.gov.ph/portal/internal/entity"
)

// Migrate creates or updates every table the portal reads. The hosted
// backend owns the production schema, so this only runs when enabled.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entity.Models()...); err != nil {
		return fmt.Errorf("bootstrap: migrate: %w", err)
	}
	return nil
}

// SeedAdminRole grants admin to userID unless it is already granted.
func SeedAdminRole(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserRole{UserID: userID, Role: entity.RoleAdmin})
	if res.Error != nil {
		return fmt.Errorf("bootstrap: seed admin role: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[Bootstrap] granted admin to %s", userID)
	}
	return nil
}
