package models

import "time"

// AuditLog is append-only. Rows are written by the audit recorder off the
// request path and are never mutated.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ActorID      string         `gorm:"type:uuid;index" json:"actor_id"`
	Action       string         `gorm:"index" json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `gorm:"serializer:json" json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

// LoginHistory records successful logins. Purgeable by superadmin only.
type LoginHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
