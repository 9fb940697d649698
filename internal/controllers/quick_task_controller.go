package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/ws"
)

// QuickTaskController manages course-independent tasks broadcast to an
// explicit set of students.
type QuickTaskController struct {
	DB    *gorm.DB
	Audit *audit.Recorder
	Hub   *ws.NotificationHub
}

// List returns all quick tasks for staff tiers; students only see those
// assigned to them.
func (qc *QuickTaskController) List(c *gin.Context) {
	user := currentUser(c)

	q := qc.DB.Model(&models.QuickTask{}).Order("created_at DESC")
	if user.Role == authz.RoleStudent {
		q = q.Where(
			"id IN (?)",
			qc.DB.Model(&models.QuickTaskAssignment{}).Select("quick_task_id").
				Where("student_id = ?", user.ID),
		)
	}

	var tasks []models.QuickTask
	if err := q.Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type quickTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (qc *QuickTaskController) Create(c *gin.Context) {
	user := currentUser(c)

	var req quickTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.QuickTask{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   user.ID,
	}
	if err := qc.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	qc.Audit.Record(user.ID, "quick_task_created", "quick_task", task.ID, map[string]any{"title": task.Title})
	c.JSON(http.StatusCreated, task)
}

func (qc *QuickTaskController) Delete(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	var task models.QuickTask
	if err := qc.DB.Where("id = ?", id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quick task not found"})
		return
	}

	if err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quick_task_id = ?", task.ID).Delete(&models.QuickTaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	qc.Audit.Record(user.ID, "quick_task_deleted", "quick_task", task.ID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "quick task deleted"})
}

type quickTaskAssignRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required"`
}

// Assign adds students to a quick task. Duplicate assignments are
// skipped rather than failing the batch.
func (qc *QuickTaskController) Assign(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	var task models.QuickTask
	if err := qc.DB.Where("id = ?", id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quick task not found"})
		return
	}

	var req quickTaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assigned := make([]models.QuickTaskAssignment, 0, len(req.StudentIDs))
	for _, sid := range req.StudentIDs {
		rec := models.QuickTaskAssignment{QuickTaskID: task.ID, StudentID: sid}
		if err := qc.DB.Create(&rec).Error; err != nil {
			if database.IsUniqueViolation(err) {
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		assigned = append(assigned, rec)
		qc.Hub.Notify(sid, ws.Notification{
			Type:    "quick_task_assigned",
			TaskID:  task.ID,
			Message: task.Title,
		})
	}

	qc.Audit.Record(user.ID, "quick_task_assigned", "quick_task", task.ID, map[string]any{
		"students": len(assigned),
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "assigned": assigned})
}

func (qc *QuickTaskController) Unassign(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	var task models.QuickTask
	if err := qc.DB.Where("id = ?", id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quick task not found"})
		return
	}

	var req quickTaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := qc.DB.Where("quick_task_id = ? AND student_id IN ?", task.ID, req.StudentIDs).
		Delete(&models.QuickTaskAssignment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	qc.Audit.Record(user.ID, "quick_task_unassigned", "quick_task", task.ID, map[string]any{
		"students": len(req.StudentIDs),
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
