package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Join code, stored uppercase so lookups are case-insensitive.
	Code      string    `gorm:"uniqueIndex" json:"code"`
	CreatedBy string    `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Enrollment statuses.
const (
	EnrollmentPending = "pending"
	EnrollmentActive  = "active"
)

// Enrollment ties a student to a course. The (course_id, student_id)
// unique index is the authoritative guard against double enrollment.
type Enrollment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID   string    `gorm:"type:uuid;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	StudentID  string    `gorm:"type:uuid;uniqueIndex:idx_enrollment_pair;index" json:"student_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// StaffAssignment grants a staff member course-creator level access to a
// course they did not create.
type StaffAssignment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"type:uuid;uniqueIndex:idx_staff_assignment_pair" json:"course_id"`
	StaffID   string    `gorm:"type:uuid;uniqueIndex:idx_staff_assignment_pair;index" json:"staff_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *StaffAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
