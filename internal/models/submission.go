package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission statuses.
const (
	SubmissionPending  = "pending"
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
)

// Submission is the single attempt a student gets per task. The
// (task_id, student_id) unique index rejects resubmission races.
type Submission struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID        string     `gorm:"type:uuid;uniqueIndex:idx_submission_pair;index" json:"task_id"`
	StudentID     string     `gorm:"type:uuid;uniqueIndex:idx_submission_pair;index" json:"student_id"`
	TextResponse  string     `json:"text_response"`
	FileURLs      []string   `gorm:"serializer:json" json:"file_urls"`
	PointsAwarded int        `json:"points_awarded"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	GradedBy      *string    `gorm:"type:uuid" json:"graded_by"`
	GradedAt      *time.Time `json:"graded_at"`
	Feedback      string     `json:"feedback"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
