// Package audit appends privileged-action records off the request path.
// Writes are best-effort: a failed or dropped audit entry never fails the
// operation that produced it.
package audit

import (
	"log"

	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/models"
)

type Recorder struct {
	db   *gorm.DB
	jobs chan models.AuditLog
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db, jobs: make(chan models.AuditLog, 512)}
}

// Run consumes the queue. Call once from main in its own goroutine.
func (r *Recorder) Run() {
	for entry := range r.jobs {
		if err := r.db.Create(&entry).Error; err != nil {
			log.Println("audit: write failed:", err)
		}
	}
}

// Record enqueues one entry. Never blocks; drops with a log line when the
// buffer is full.
func (r *Recorder) Record(actorID, action, resourceType, resourceID string, details map[string]any) {
	if r == nil {
		return
	}
	entry := models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	select {
	case r.jobs <- entry:
	default:
		log.Println("audit: queue full, dropping", action)
	}
}
