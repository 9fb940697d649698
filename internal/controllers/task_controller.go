package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/models"
)

type TaskController struct {
	DB    *gorm.DB
	Mail  *mailer.Queue
	Audit *audit.Recorder
}

// fetchTask loads a task or writes a 404.
func fetchTask(c *gin.Context, db *gorm.DB, id string) (models.Task, bool) {
	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return task, false
	}
	return task, true
}

// ListForCourse returns course tasks in creation order, which is also
// the prerequisite sequence.
func (tc *TaskController) ListForCourse(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, tc.DB, c.Param("id"))
	if !ok {
		return
	}
	allowed, err := authz.CanAccessCourse(tc.DB, user, course)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this course"})
		return
	}

	var tasks []models.Task
	if err := tc.DB.Where("course_id = ?", course.ID).
		Order("created_at ASC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type taskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	MaxPoints   int        `json:"max_points"`
}

func (tc *TaskController) Create(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, tc.DB, c.Param("id"))
	if !ok {
		return
	}
	if !authz.CanModifyCourse(user, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may add tasks"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 100
	}

	task := models.Task{
		CourseID:    course.ID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		MaxPoints:   maxPoints,
		CreatedBy:   user.ID,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tc.notifyEnrolledStudents(course, task)
	tc.Audit.Record(user.ID, "task_created", "task", task.ID, map[string]any{"title": task.Title})
	c.JSON(http.StatusCreated, task)
}

// notifyEnrolledStudents emails the course roster about a new task.
// Best-effort: lookup failures are dropped silently.
func (tc *TaskController) notifyEnrolledStudents(course models.Course, task models.Task) {
	var emails []string
	err := tc.DB.Model(&models.User{}).
		Where("id IN (?)",
			tc.DB.Model(&models.Enrollment{}).Select("student_id").
				Where("course_id = ? AND status = ?", course.ID, models.EnrollmentActive),
		).Pluck("email", &emails).Error
	if err != nil || len(emails) == 0 {
		return
	}
	tc.Mail.Enqueue(emails,
		fmt.Sprintf("New Task: %s", task.Title),
		fmt.Sprintf("<p>A new task %q has been added to %q.</p>", task.Title, course.Title))
}

func (tc *TaskController) Update(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, tc.DB, c.Param("id"))
	if !ok {
		return
	}
	course, ok := fetchCourse(c, tc.DB, task.CourseID)
	if !ok {
		return
	}
	if !authz.CanModifyCourse(user, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may modify tasks"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"deadline":    req.Deadline,
	}
	if req.MaxPoints > 0 {
		updates["max_points"] = req.MaxPoints
	}
	if err := tc.DB.Model(&task).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tc.Audit.Record(user.ID, "task_updated", "task", task.ID, nil)
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) Delete(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, tc.DB, c.Param("id"))
	if !ok {
		return
	}
	course, ok := fetchCourse(c, tc.DB, task.CourseID)
	if !ok {
		return
	}
	if !authz.CanModifyCourse(user, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may delete tasks"})
		return
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tc.Audit.Record(user.ID, "task_deleted", "task", task.ID, map[string]any{"title": task.Title})
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
