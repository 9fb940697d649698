package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task belongs to a course. Creation order within a course defines the
// prerequisite sequence used by the gating rules.
type Task struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    string     `gorm:"type:uuid;index" json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	MaxPoints   int        `json:"max_points"`
	CreatedBy   string     `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// QuickTask is a course-independent task broadcast to an explicit set of
// students via QuickTaskAssignment rows.
type QuickTask struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *QuickTask) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type QuickTaskAssignment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuickTaskID string    `gorm:"type:uuid;uniqueIndex:idx_quick_task_pair" json:"quick_task_id"`
	StudentID   string    `gorm:"type:uuid;uniqueIndex:idx_quick_task_pair;index" json:"student_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *QuickTaskAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
