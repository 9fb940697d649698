package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unlock request statuses.
const (
	UnlockRequestPending  = "pending"
	UnlockRequestApproved = "approved"
	UnlockRequestRejected = "rejected"
)

// TaskUnlockRequest is a student's appeal against a deadline lock. A
// partial unique index (created in database.Migrate) keeps at most one
// pending request per (task, student) pair.
type TaskUnlockRequest struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     string     `gorm:"type:uuid;index" json:"task_id"`
	StudentID  string     `gorm:"type:uuid;index" json:"student_id"`
	Reason     string     `json:"reason"`
	Status     string     `gorm:"index" json:"status"`
	ReviewedBy *string    `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"requested_at"`
}

func (r *TaskUnlockRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TaskUnlock grants post-deadline submission rights. Created once when a
// request is approved (or directly by a reviewer); never revoked.
type TaskUnlock struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    string    `gorm:"type:uuid;uniqueIndex:idx_task_unlock_pair" json:"task_id"`
	StudentID string    `gorm:"type:uuid;uniqueIndex:idx_task_unlock_pair;index" json:"student_id"`
	GrantedBy string    `gorm:"type:uuid" json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *TaskUnlock) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
