package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/gating"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/ws"
)

// UnlockController handles the deadline appeal workflow: students file
// unlock requests, course creators approve or reject them.
type UnlockController struct {
	DB          *gorm.DB
	Submissions *SubmissionController
	Mail        *mailer.Queue
	Audit       *audit.Recorder
	Hub         *ws.NotificationHub
}

type unlockRequestBody struct {
	Reason string `json:"reason"`
}

// RequestUnlock files an appeal against a deadline lock. Only valid
// while the task is actually deadline-locked for the student.
func (uc *UnlockController) RequestUnlock(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, uc.DB, c.Param("id"))
	if !ok {
		return
	}

	state, err := uc.Submissions.gatingState(task, user.ID, timeNow())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	switch state {
	case gating.StateSubmitted:
		c.JSON(http.StatusBadRequest, gin.H{"error": "task already submitted"})
		return
	case gating.StateLockedSequence:
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete previous tasks first"})
		return
	case gating.StateUnlocked:
		c.JSON(http.StatusBadRequest, gin.H{"error": "task is not locked"})
		return
	}

	var body unlockRequestBody
	_ = c.ShouldBindJSON(&body)

	var pending int64
	if err := uc.DB.Model(&models.TaskUnlockRequest{}).
		Where("task_id = ? AND student_id = ? AND status = ?", task.ID, user.ID, models.UnlockRequestPending).
		Count(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pending > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unlock request already pending"})
		return
	}

	request := models.TaskUnlockRequest{
		TaskID:    task.ID,
		StudentID: user.ID,
		Reason:    body.Reason,
		Status:    models.UnlockRequestPending,
	}
	if err := uc.DB.Create(&request).Error; err != nil {
		// Partial unique index on pending (task, student) pairs.
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unlock request already pending"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uc.Audit.Record(user.ID, "unlock_requested", "task_unlock_request", request.ID, map[string]any{
		"task_id": task.ID,
	})
	c.JSON(http.StatusCreated, request)
}

// UnlockStatus reports the caller's gating state for a task plus any
// live unlock request, so clients can render the right call to action.
func (uc *UnlockController) UnlockStatus(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, uc.DB, c.Param("id"))
	if !ok {
		return
	}

	state, err := uc.Submissions.gatingState(task, user.ID, timeNow())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"task_id": task.ID, "state": state}
	var request models.TaskUnlockRequest
	if err := uc.DB.Where("task_id = ? AND student_id = ?", task.ID, user.ID).
		Order("created_at DESC").First(&request).Error; err == nil {
		resp["request"] = request
	}
	c.JSON(http.StatusOK, resp)
}

type unlockRequestRow struct {
	models.TaskUnlockRequest
	Student   *models.Profile `json:"student,omitempty"`
	TaskTitle string          `json:"task_title"`
	CourseID  string          `json:"course_id"`
}

// ListRequests returns unlock requests over the courses the caller may
// review, optionally filtered by ?status=.
func (uc *UnlockController) ListRequests(c *gin.Context) {
	user := currentUser(c)

	var courses []models.Course
	q := uc.DB.Model(&models.Course{})
	if user.Role != authz.RoleSuperAdmin {
		q = q.Where("created_by = ?", user.ID)
	}
	if err := q.Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(courses) == 0 {
		c.JSON(http.StatusOK, []unlockRequestRow{})
		return
	}

	courseIDs := make([]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}

	var tasks []models.Task
	if err := uc.DB.Where("course_id IN ?", courseIDs).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	taskByID := make(map[string]models.Task, len(tasks))
	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskByID[t.ID] = t
		taskIDs[i] = t.ID
	}
	if len(taskIDs) == 0 {
		c.JSON(http.StatusOK, []unlockRequestRow{})
		return
	}

	rq := uc.DB.Where("task_id IN ?", taskIDs).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		rq = rq.Where("status = ?", status)
	}
	var requests []models.TaskUnlockRequest
	if err := rq.Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	studentIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		studentIDs = append(studentIDs, r.StudentID)
	}
	profiles := map[string]models.Profile{}
	if len(studentIDs) > 0 {
		var users []models.User
		if err := uc.DB.Where("id IN ?", studentIDs).Find(&users).Error; err == nil {
			for _, u := range users {
				profiles[u.ID] = u.Profile()
			}
		}
	}

	out := make([]unlockRequestRow, 0, len(requests))
	for _, r := range requests {
		row := unlockRequestRow{TaskUnlockRequest: r}
		if t, ok := taskByID[r.TaskID]; ok {
			row.TaskTitle = t.Title
			row.CourseID = t.CourseID
		}
		if p, ok := profiles[r.StudentID]; ok {
			row.Student = &p
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

type unlockReviewBody struct {
	Status string `json:"status" binding:"required"`
}

// Review resolves a pending unlock request. Approval grants the unlock
// in the same transaction; both outcomes are terminal.
func (uc *UnlockController) Review(c *gin.Context) {
	reviewer := currentUser(c)

	var request models.TaskUnlockRequest
	if err := uc.DB.Where("id = ?", c.Param("id")).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unlock request not found"})
		return
	}
	if request.Status != models.UnlockRequestPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request already reviewed"})
		return
	}
	task, ok := fetchTask(c, uc.DB, request.TaskID)
	if !ok {
		return
	}
	course, ok := fetchCourse(c, uc.DB, task.CourseID)
	if !ok {
		return
	}
	if !authz.CanReviewUnlockRequests(reviewer, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator may review unlock requests"})
		return
	}

	var body unlockReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Status != models.UnlockRequestApproved && body.Status != models.UnlockRequestRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	now := timeNow()
	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]any{
			"status":      body.Status,
			"reviewed_by": reviewer.ID,
			"reviewed_at": &now,
		}).Error; err != nil {
			return err
		}
		if body.Status != models.UnlockRequestApproved {
			return nil
		}
		unlock := models.TaskUnlock{
			TaskID:    request.TaskID,
			StudentID: request.StudentID,
			GrantedBy: reviewer.ID,
		}
		if err := tx.Create(&unlock).Error; err != nil && !database.IsUniqueViolation(err) {
			return err
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uc.notifyReviewed(request, task, body.Status)
	uc.Audit.Record(reviewer.ID, "unlock_reviewed", "task_unlock_request", request.ID, map[string]any{
		"status":  body.Status,
		"task_id": task.ID,
	})

	uc.DB.Where("id = ?", request.ID).First(&request)
	c.JSON(http.StatusOK, request)
}

func (uc *UnlockController) notifyReviewed(request models.TaskUnlockRequest, task models.Task, status string) {
	var student models.User
	if err := uc.DB.Where("id = ?", request.StudentID).First(&student).Error; err != nil {
		return
	}

	uc.Mail.Enqueue([]string{student.Email},
		fmt.Sprintf("Unlock Request %s: %s", status, task.Title),
		fmt.Sprintf("<p>Your unlock request for %q has been %s.</p>", task.Title, status))

	uc.Hub.Notify(student.ID, ws.Notification{
		Type:   "unlock_reviewed",
		TaskID: task.ID,
		Status: status,
	})
}
