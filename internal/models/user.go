package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Email       string `gorm:"uniqueIndex"`
	Password    string
	DisplayName string
	Role        string `gorm:"index"`
	Department  string
	StudentID   string
	StaffID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the public shape of a user returned by directory,
// enrollment and leaderboard endpoints.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Department  string    `json:"department,omitempty"`
	StudentID   string    `json:"student_id,omitempty"`
	StaffID     string    `json:"staff_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Department:  u.Department,
		StudentID:   u.StudentID,
		StaffID:     u.StaffID,
		CreatedAt:   u.CreatedAt,
	}
}
