package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/config"
	"github.com/campuspoint/lms_backend/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Course{},
		&models.Enrollment{},
		&models.StaffAssignment{},
		&models.Task{},
		&models.QuickTask{},
		&models.QuickTaskAssignment{},
		&models.Submission{},
		&models.TaskUnlockRequest{},
		&models.TaskUnlock{},
		&models.AuditLog{},
		&models.LoginHistory{},
	); err != nil {
		return err
	}
	// At most one pending unlock request per (task, student). AutoMigrate
	// cannot express partial indexes, so it is created here.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_unlock_request_pending
		 ON task_unlock_requests (task_id, student_id) WHERE status = 'pending'`,
	).Error
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// rejection. The index is the authoritative conflict guard; pre-checks in
// handlers only exist to produce friendlier messages.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
