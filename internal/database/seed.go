package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/config"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/utils"
)

// SeedSuperAdmin creates the initial superadmin account when none exists.
func SeedSuperAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", authz.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:       cfg.SuperAdminEmail,
		Password:    hashed,
		DisplayName: cfg.SuperAdminName,
		Role:        authz.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial superadmin:", admin.Email)
	return nil
}
